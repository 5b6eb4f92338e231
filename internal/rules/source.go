package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/remote"
)

// Source fetches the ordered rule sets for one record kind.
type Source interface {
	Fetch(ctx context.Context, kind constants.RecordKind) ([]RuleSet, error)
}

// HTTPSource fetches rule sets from the remote rule service:
// GET {base}/rules?kind=KIND -> [{name, patterns:[...]}, ...].
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

func NewHTTPSource(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, kind constants.RecordKind) ([]RuleSet, error) {
	endpoint := s.BaseURL + "/rules?kind=" + url.QueryEscape(string(kind))
	raw, _, err := remote.GetJSON(ctx, s.Client, endpoint, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("fetch rules for %s: %w", kind, err)
	}
	return decodeRuleSets(raw, kind)
}

// FileSource reads the same JSON payload from a local file, keyed by kind:
// {"STOCK_IN": [...], "STOCK_OUT": [...], "MONITOR": [...]}. Used by the CLI
// when no rule service is reachable.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context, kind constants.RecordKind) ([]RuleSet, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var byKind map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKind); err != nil {
		return nil, fmt.Errorf("decode rules file: %w", err)
	}
	payload, ok := byKind[string(kind)]
	if !ok {
		return nil, fmt.Errorf("rules file has no entry for kind %s", kind)
	}
	return decodeRuleSets(payload, kind)
}

func decodeRuleSets(raw []byte, kind constants.RecordKind) ([]RuleSet, error) {
	if err := ValidateJSONAgainstSchema(BuildRuleSetJSONSchema(), raw); err != nil {
		return nil, fmt.Errorf("invalid rule payload for %s: %w", kind, err)
	}
	var sets []RuleSet
	if err := json.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("decode rule sets for %s: %w", kind, err)
	}
	return sets, nil
}
