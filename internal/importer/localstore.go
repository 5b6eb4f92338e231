package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/record"
)

// LocalStore is an ImportService over a local SQLite file, for offline CLI
// runs with no persistence service reachable. One flat table; duplicate
// logical transactions are ignored on insert, which doubles as the
// idempotency check the remote service would do.
type LocalStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const localSchema = `
CREATE TABLE IF NOT EXISTS trade_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	kind         TEXT    NOT NULL,
	item_name    TEXT    NOT NULL,
	quantity     INTEGER NOT NULL,
	unit_price   TEXT    NOT NULL,
	fee          TEXT    NOT NULL,
	total_amount TEXT    NOT NULL,
	target_price TEXT,
	tx_time      TEXT    NOT NULL,
	note         TEXT,
	request_id   TEXT    NOT NULL,
	dedupe_key   TEXT    NOT NULL,
	created_at   TEXT    NOT NULL,
	UNIQUE (kind, dedupe_key)
);`

func OpenLocalStore(path string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init local store schema: %w", err)
	}
	return &LocalStore{db: db, logger: logger}, nil
}

func (s *LocalStore) Close() error { return s.db.Close() }

func (s *LocalStore) Import(ctx context.Context, kind constants.RecordKind, records []*record.TransactionRecord, requestID string) (ImportOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportOutcome{}, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `
INSERT OR IGNORE INTO trade_records
	(kind, item_name, quantity, unit_price, fee, total_amount, target_price, tx_time, note, request_id, dedupe_key, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var out ImportOutcome
	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		res, err := tx.ExecContext(ctx, insert,
			string(kind), r.ItemName, r.Quantity,
			r.UnitPrice.String(), r.Fee.String(), r.TotalAmount.String(), r.TargetPrice.String(),
			r.TxTime.UTC().Format(time.RFC3339), r.Note, requestID, r.Key(), now,
		)
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", r.ItemName, err))
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			out.Failed++
			out.Errors = append(out.Errors, fmt.Sprintf("%s: already imported", r.ItemName))
			continue
		}
		out.Success++
	}

	if err := tx.Commit(); err != nil {
		return ImportOutcome{}, fmt.Errorf("commit import tx: %w", err)
	}
	s.logger.Info("import.local.done", "request_id", requestID, "imported", out.Success, "skipped", out.Failed)
	return out, nil
}
