package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/record"
	"github.com/junwei-lu/tradescan/internal/remote"
)

// Client is the HTTP persistence collaborator:
// POST {base}/import {kind, records, request_id} ->
// {success, results:{success, failed, errors}}.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *Client) Import(ctx context.Context, kind constants.RecordKind, records []*record.TransactionRecord, requestID string) (ImportOutcome, error) {
	body := map[string]any{
		"kind":       kind,
		"records":    records,
		"request_id": requestID,
	}
	raw, _, err := remote.PostJSON(ctx, c.HTTP, c.BaseURL+"/import", body, map[string]string{
		"Idempotency-Key": requestID,
	}, c.Logger)
	if err != nil {
		return ImportOutcome{}, fmt.Errorf("import request: %w", err)
	}

	var resp struct {
		Success bool          `json:"success"`
		Results ImportOutcome `json:"results"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ImportOutcome{}, fmt.Errorf("decode import response: %w", err)
	}
	if !resp.Success && resp.Results.Success == 0 && resp.Results.Failed == 0 {
		return ImportOutcome{}, fmt.Errorf("import rejected by persistence service")
	}
	return resp.Results, nil
}
