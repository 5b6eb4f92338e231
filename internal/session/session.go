// Package session wires the recognition pipeline into the surface the UI or
// CLI layer calls: batch runs, record submission, and catalog access.
package session

import (
	"context"
	"log/slog"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/batch"
	"github.com/junwei-lu/tradescan/internal/common"
	"github.com/junwei-lu/tradescan/internal/importer"
	"github.com/junwei-lu/tradescan/internal/record"
	"github.com/junwei-lu/tradescan/internal/recognize"
	"github.com/junwei-lu/tradescan/internal/rules"
)

// Session owns one logical user session: the rule cache and the submit
// debounce timer live here and nowhere else.
type Session struct {
	Catalog      *rules.Catalog
	Orchestrator *batch.Orchestrator
	Submitter    *importer.Submitter
	Logger       *slog.Logger
}

// Options bundles the collaborators and tunables a Session needs.
type Options struct {
	Source        rules.Source
	Recognizer    recognize.Recognizer
	ImportService importer.ImportService
	Config        *common.Config
	Logger        *slog.Logger
	OnProgress    batch.ProgressFunc
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = common.LoadConfig()
	}

	catalog := rules.NewCatalog(opts.Source, cfg.Rules.CacheTTL, nil, logger)
	matcher := rules.NewMatcher(cfg.Rules.CoverageRatio, logger)
	reconciler := record.NewReconciler(nil, logger)
	orch := batch.NewOrchestrator(opts.Recognizer, catalog, matcher, reconciler, logger)
	orch.OnProgress = opts.OnProgress

	return &Session{
		Catalog:      catalog,
		Orchestrator: orch,
		Submitter:    importer.NewSubmitter(opts.ImportService, cfg.Importer.DebounceInterval, logger),
		Logger:       logger,
	}
}

// RunBatch recognizes a set of screenshots and returns partial results even
// when every image fails; progress streams through the observer callback.
func (s *Session) RunBatch(ctx context.Context, kind constants.RecordKind, images []string) *batch.BatchState {
	return s.Orchestrator.Run(ctx, kind, images)
}

// SubmitRecords dedupes and submits records for import. Dedupe warnings are
// folded into the result; they never fail the submission.
func (s *Session) SubmitRecords(ctx context.Context, kind constants.RecordKind, records []*record.TransactionRecord) (importer.SubmissionResult, error) {
	deduped := record.Dedupe(records)
	for _, w := range deduped.Warnings {
		s.Logger.Warn("session.dedupe", "kind", kind, "warning", w)
	}

	res, err := s.Submitter.Submit(ctx, kind, deduped.Records)
	if err != nil {
		return res, err
	}
	if res.Warning == "" && len(deduped.Warnings) > 0 {
		res.Warning = deduped.Warnings[0]
	}
	return res, err
}

// GetCatalog exposes the ordered rule sets for rule-management screens.
// Unlike batch runs, catalog errors here are hard: a management screen with
// no rules is a user-facing failure.
func (s *Session) GetCatalog(ctx context.Context, kind constants.RecordKind, forceRefresh bool) ([]rules.RuleSet, error) {
	return s.Catalog.GetRules(ctx, kind, forceRefresh)
}
