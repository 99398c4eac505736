package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

const (
	ledgerTable = "processed_posts"
	// rows per INSERT statement
	insertBatch = 200
)

const createLedgerTable = `CREATE TABLE IF NOT EXISTS processed_posts (
    post_id      BIGINT PRIMARY KEY,
    processed_at TIMESTAMP NOT NULL
)`

// SQLLedger persists processed post ids into Postgres or SQLite.
type SQLLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.LedgerStore = (*SQLLedger)(nil)

// OpenDB opens a database handle for the ledger driver name ("postgres" or "sqlite").
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("ledger dsn is empty for driver %s", driver)
	}

	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLLedger wires a sql.DB; driver picks the placeholder style.
func NewSQLLedger(db *sql.DB, driver string) *SQLLedger {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == "postgres" {
		placeholder = sq.Dollar
	}
	return &SQLLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		now:     time.Now,
	}
}

// EnsureSchema creates the ledger table when it is missing.
func (r *SQLLedger) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLedgerTable); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	return nil
}

// Load reads every processed id.
func (r *SQLLedger) Load(ctx context.Context) (domain.Ledger, error) {
	query, args, err := r.builder.
		Select("post_id").
		From(ledgerTable).
		OrderBy("post_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}

	ledger := domain.NewLedger()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ledger.Mark(id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return ledger, nil
}

// Save inserts all ids in one transaction; ids already stored are left untouched.
func (r *SQLLedger) Save(ctx context.Context, ledger domain.Ledger) error {
	ids := ledger.IDs()
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	processedAt := r.now().UTC()
	for start := 0; start < len(ids); start += insertBatch {
		end := min(start+insertBatch, len(ids))

		insert := r.builder.
			Insert(ledgerTable).
			Columns("post_id", "processed_at")
		for _, id := range ids[start:end] {
			insert = insert.Values(id, processedAt)
		}

		query, args, err := insert.Suffix("ON CONFLICT (post_id) DO NOTHING").ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert processed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	return nil
}
