// Package storage implements the budget repository on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/storage/record"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps transactions from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, name core.Name, owners []uuid.UUID) (bool, error) {
	for _, o := range owners {
		n, err := r.queries.CountByNameOwner(ctx, name.String(), o)
		if err != nil {
			return false, fmt.Errorf("count budgets by name: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Save inserts the budget, its owners and pockets in one transaction. The
// unique (name, owner) index turns a concurrent duplicate into
// core.ErrBudgetAlreadyExists.
func (r *SQLiteRepository) Save(ctx context.Context, b *core.Budget) error {
	snap := b.Snapshot()
	row, pockets := record.FromSnapshot(snap)

	err := r.inTx(ctx, func(q *Queries) error {
		if err := q.InsertBudget(ctx, row); err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}
		for _, o := range snap.Owners {
			if err := q.InsertOwner(ctx, snap.ID, o, row.Name); err != nil {
				return fmt.Errorf("insert owner: %w", err)
			}
		}
		for _, p := range pockets {
			if err := q.InsertPocket(ctx, p); err != nil {
				return fmt.Errorf("insert pocket: %w", err)
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", core.ErrBudgetAlreadyExists, row.Name)
	}
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).InfoContext(ctx, "Budget saved to SQLite",
		log.FieldBudgetID, snap.ID.String(),
		log.FieldBudgetName, row.Name,
		log.FieldOwners, len(snap.Owners))
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Budget, error) {
	row, err := r.queries.GetBudget(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrBudgetNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	owners, err := r.queries.ListOwners(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	pockets, err := r.queries.ListPockets(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list pockets: %w", err)
	}
	return row.ToDomain(owners, pockets)
}

// Update rewrites the pocket rows of an existing budget.
func (r *SQLiteRepository) Update(ctx context.Context, b *core.Budget) error {
	_, pockets := record.FromSnapshot(b.Snapshot())
	return r.inTx(ctx, func(q *Queries) error {
		if _, err := q.GetBudget(ctx, b.ID()); errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", core.ErrBudgetNotFound, b.ID())
		} else if err != nil {
			return fmt.Errorf("get budget: %w", err)
		}
		if err := q.DeletePockets(ctx, b.ID()); err != nil {
			return fmt.Errorf("delete pockets: %w", err)
		}
		for _, p := range pockets {
			if err := q.InsertPocket(ctx, p); err != nil {
				return fmt.Errorf("insert pocket: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Extended result codes disabled.
		return strings.Contains(se.Error(), "UNIQUE constraint failed")
	}
	return false
}
