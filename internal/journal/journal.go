// Package journal is the append-only audit trail of applied ledger
// mutations, backed by SQLite. The default DSN is ":memory:": the journal
// lives and dies with the process, like the rest of the ledger state. A
// file DSN is accepted for operators who want the trail to survive.
package journal

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ledgerkit/ledgerd/internal/domain"
	"github.com/ledgerkit/ledgerd/internal/metrics"
)

// DefaultDSN keeps the journal in process memory.
const DefaultDSN = ":memory:"

// Migrations returns the journal schema statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS audit_entries (
			id         TEXT PRIMARY KEY,
			seq        INTEGER NOT NULL,
			timestamp  INTEGER NOT NULL,
			account_id TEXT NOT NULL,
			kind       TEXT NOT NULL,
			amount     INTEGER NOT NULL,
			ref_id     TEXT,
			balance    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_account ON audit_entries(account_id, seq)`,
	}
}

// Journal records audit entries. It implements domain.AuditSink.
type Journal struct {
	db  *sql.DB
	seq int64
	log *zap.Logger
}

// Open opens (and migrates) a journal at the given DSN. An empty DSN means
// DefaultDSN.
func Open(dsn string) (*Journal, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A :memory: database exists per connection; the pool must never open
	// a second one.
	db.SetMaxOpenConns(1)

	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate journal: %w", err)
		}
	}
	return &Journal{db: db, log: zap.L()}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one audit entry. Recording is fire-and-forget: a failed
// insert is logged and dropped, never surfaced to the mutation that
// produced it.
func (j *Journal) Record(e domain.AuditEntry) {
	j.seq++
	_, err := j.db.Exec(`
		INSERT INTO audit_entries (id, seq, timestamp, account_id, kind, amount, ref_id, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), j.seq, e.Timestamp, e.AccountID, string(e.Kind), e.Amount, e.RefID, e.Balance,
	)
	if err != nil {
		metrics.JournalErrors.Inc()
		j.log.Error("journal insert failed",
			zap.String("account_id", e.AccountID),
			zap.String("kind", string(e.Kind)),
			zap.Error(err))
		return
	}
	metrics.JournalEntries.Inc()
}

// History returns every entry for an account in the order it was applied.
func (j *Journal) History(accountID string) ([]domain.AuditEntry, error) {
	rows, err := j.db.Query(`
		SELECT timestamp, account_id, kind, amount, ref_id, balance
		FROM audit_entries
		WHERE account_id = ?
		ORDER BY seq`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var kind string
		var ref sql.NullString
		if err := rows.Scan(&e.Timestamp, &e.AccountID, &kind, &e.Amount, &ref, &e.Balance); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Kind = domain.AuditKind(kind)
		e.RefID = ref.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return out, nil
}

// Len returns the total number of recorded entries.
func (j *Journal) Len() (int64, error) {
	var n int64
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM audit_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}
