// Package storage persists expenses in a local SQLite database. The schema
// is managed by embedded golang-migrate migrations. Connections are pooled
// by database/sql and acquired per operation; correctness under concurrent
// writers relies on SQLite's own single-writer serialization, a documented
// limitation rather than a guarantee.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendvoice/internal/core"

	_ "modernc.org/sqlite"
)

const createdAtLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateExpense inserts a new record and returns it with the assigned id
// and server-side creation timestamp.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, description, category, date) VALUES (?, ?, ?, ?)`,
		e.Amount.Cents, e.Description, e.Category, e.Date.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	var createdAt string
	if err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM expenses WHERE id = ?`, id).Scan(&createdAt); err != nil {
		return core.Expense{}, fmt.Errorf("read created expense: %w", err)
	}

	e.ID = id
	e.CreatedAt = parseCreatedAt(createdAt)

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date.String())

	return e, nil
}

// ListExpenses returns every record ordered by date descending. Ties keep
// storage order; there is deliberately no secondary sort key.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, description, category, date, created_at
		 FROM expenses ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e         core.Expense
			date      string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &e.Description, &e.Category, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		e.Date = d
		e.CreatedAt = parseCreatedAt(createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// DeleteExpense removes the record if present. Deleting an absent id is a
// no-op; affected-row counts are not surfaced as failure.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// Stats computes the overall total, per-category totals sorted descending,
// and count/total over the last seven days inclusive of today.
func (r *SQLiteRepository) Stats(ctx context.Context) (core.Stats, error) {
	var st core.Stats

	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses`).Scan(&st.Total.Cents); err != nil {
		return core.Stats{}, fmt.Errorf("total: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) AS total
		 FROM expenses GROUP BY category ORDER BY total DESC`)
	if err != nil {
		return core.Stats{}, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return core.Stats{}, fmt.Errorf("scan category total: %w", err)
		}
		st.ByCategory = append(st.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return core.Stats{}, fmt.Errorf("iterate category totals: %w", err)
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)
		 FROM expenses WHERE date >= date('now', '-7 days')`).
		Scan(&st.RecentCount, &st.RecentTotal.Cents); err != nil {
		return core.Stats{}, fmt.Errorf("recent totals: %w", err)
	}

	return st, nil
}

// parseCreatedAt decodes SQLite's CURRENT_TIMESTAMP text. A value that does
// not parse is reported as zero time rather than failing the read.
func parseCreatedAt(s string) time.Time {
	if t, err := time.Parse(createdAtLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
