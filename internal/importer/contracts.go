// Package importer submits deduplicated records to the persistence
// collaborator, debouncing rapid repeated submissions.
package importer

import (
	"context"
	"fmt"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/record"
)

// ImportService is the external persistence collaborator. requestID is an
// idempotency token: the service deduplicates on it as a second line of
// defense behind the client-side debounce.
type ImportService interface {
	Import(ctx context.Context, kind constants.RecordKind, records []*record.TransactionRecord, requestID string) (ImportOutcome, error)
}

// ImportOutcome mirrors the persistence service's per-record tally.
type ImportOutcome struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// SubmissionResult is what the caller acts on. Partial failure is a warning:
// any successfully imported record means the caller should proceed.
type SubmissionResult struct {
	SuccessCount int
	FailedCount  int
	Filtered     int
	Errors       []string
	Warning      string
}

// Ok reports whether the caller should treat the submission as successful.
func (r SubmissionResult) Ok() bool {
	return r.SuccessCount > 0
}

func (r SubmissionResult) String() string {
	return fmt.Sprintf("imported=%d failed=%d filtered=%d", r.SuccessCount, r.FailedCount, r.Filtered)
}
