package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/common"
	"github.com/junwei-lu/tradescan/internal/record"
)

// DefaultDebounceInterval suppresses duplicate submissions from rapid
// repeated user actions (double-clicked import buttons and the like).
const DefaultDebounceInterval = 100 * time.Millisecond

// Submitter debounces Submit calls per record kind and delegates to the
// persistence collaborator. Within the debounce window only the latest call
// proceeds; superseded calls return ErrSuperseded without touching the
// network.
type Submitter struct {
	Service  ImportService
	Interval time.Duration
	Logger   *slog.Logger

	mu  sync.Mutex
	seq map[constants.RecordKind]uint64
}

func NewSubmitter(service ImportService, interval time.Duration, logger *slog.Logger) *Submitter {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		Service:  service,
		Interval: interval,
		Logger:   logger,
		seq:      make(map[constants.RecordKind]uint64),
	}
}

// Submit filters invalid records, waits out the debounce window, and imports
// the rest under a fresh idempotency token. successCount>0 is overall
// success even when some records failed; successCount==0 with records
// attempted is a hard failure.
func (s *Submitter) Submit(ctx context.Context, kind constants.RecordKind, records []*record.TransactionRecord) (SubmissionResult, error) {
	ticket := s.take(kind)

	select {
	case <-time.After(s.Interval):
	case <-ctx.Done():
		return SubmissionResult{}, ctx.Err()
	}
	if !s.latest(kind, ticket) {
		s.Logger.Info("import.submit.superseded", "kind", kind, "records", len(records))
		return SubmissionResult{}, common.ErrSuperseded
	}

	valid, filtered := record.FilterInvalid(records)
	res := SubmissionResult{Filtered: filtered}
	if len(valid) == 0 {
		// Nothing importable; not worth a network round trip.
		s.Logger.Warn("import.submit.empty", "kind", kind, "filtered", filtered)
		return res, nil
	}

	requestID := uuid.New().String()
	s.Logger.Info("import.submit.start",
		"kind", kind,
		"request_id", requestID,
		"records", len(valid),
		"filtered", filtered,
	)

	outcome, err := s.Service.Import(ctx, kind, valid, requestID)
	if err != nil {
		return res, common.WrapError(err, "import records")
	}

	res.SuccessCount = outcome.Success
	res.FailedCount = outcome.Failed
	res.Errors = outcome.Errors

	switch {
	case res.SuccessCount == 0:
		s.Logger.Error("import.submit.failed", "kind", kind, "request_id", requestID, "errors", len(res.Errors))
		return res, common.NewAppError("IMPORT_FAILED", "no records were imported", common.ErrInternal)
	case res.FailedCount > 0:
		res.Warning = fmt.Sprintf("%d of %d records failed to import", res.FailedCount, res.SuccessCount+res.FailedCount)
		s.Logger.Warn("import.submit.partial", "kind", kind, "request_id", requestID, "warning", res.Warning)
	default:
		s.Logger.Info("import.submit.ok", "kind", kind, "request_id", requestID, "imported", res.SuccessCount)
	}
	return res, nil
}

func (s *Submitter) take(kind constants.RecordKind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[kind]++
	return s.seq[kind]
}

func (s *Submitter) latest(kind constants.RecordKind, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[kind] == ticket
}
