// Package postgres implements the budget repository on PostgreSQL with a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/storage/record"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const dateLayout = "2006-01-02"

type Repository struct {
	pool *pgxpool.Pool
}

// Open connects to url, applies migrations and returns a ready repository.
func Open(ctx context.Context, url string) (*Repository, error) {
	if err := RunMigrations(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Exists(ctx context.Context, name core.Name, owners []uuid.UUID) (bool, error) {
	if len(owners) == 0 {
		return false, nil
	}
	ids := make([]string, len(owners))
	for i, o := range owners {
		ids[i] = o.String()
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM budget_owners WHERE budget_name = $1 AND owner_id = ANY($2::uuid[]))`,
		name.String(), ids).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check budget name: %w", err)
	}
	return exists, nil
}

// Save inserts the budget with its owners and pockets in one transaction.
func (r *Repository) Save(ctx context.Context, b *core.Budget) error {
	snap := b.Snapshot()
	row, pockets := record.FromSnapshot(snap)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO budgets (id, name, limit_amount, currency, period_start, period_end, schema_kind, schema_day)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			row.ID, row.Name, row.LimitAmount, row.Currency,
			snap.Period.Start().Time, snap.Period.End().Time, row.SchemaKind, row.SchemaDay)
		if err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}

		batch := &pgx.Batch{}
		for i, o := range snap.Owners {
			batch.Queue(`INSERT INTO budget_owners (budget_id, owner_id, budget_name, position) VALUES ($1, $2, $3, $4)`,
				row.ID, o, row.Name, i)
		}
		for _, p := range pockets {
			queuePocket(batch, p)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert owners and pockets: %w", err)
		}
		return nil
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %q", core.ErrBudgetAlreadyExists, row.Name)
	}
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).InfoContext(ctx, "Budget saved to Postgres",
		log.FieldBudgetID, row.ID.String(),
		log.FieldBudgetName, row.Name)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*core.Budget, error) {
	row := record.Budget{ID: id}
	var start, end time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT name, limit_amount, currency, period_start, period_end, schema_kind, schema_day
		 FROM budgets WHERE id = $1`, id).
		Scan(&row.Name, &row.LimitAmount, &row.Currency, &start, &end, &row.SchemaKind, &row.SchemaDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrBudgetNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	row.PeriodStart = start.Format(dateLayout)
	row.PeriodEnd = end.Format(dateLayout)

	rows, err := r.pool.Query(ctx, `SELECT owner_id FROM budget_owners WHERE budget_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	owners, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT position, name, limit_amount, currency FROM pockets WHERE budget_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list pockets: %w", err)
	}
	pockets, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (record.Pocket, error) {
		p := record.Pocket{BudgetID: id}
		err := r.Scan(&p.Position, &p.Name, &p.LimitAmount, &p.Currency)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("list pockets: %w", err)
	}

	return row.ToDomain(owners, pockets)
}

// Update rewrites the pockets of an existing budget. The budget row is
// locked for the duration of the transaction.
func (r *Repository) Update(ctx context.Context, b *core.Budget) error {
	_, pockets := record.FromSnapshot(b.Snapshot())
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM budgets WHERE id = $1 FOR UPDATE`, b.ID()).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", core.ErrBudgetNotFound, b.ID())
		}
		if err != nil {
			return fmt.Errorf("lock budget: %w", err)
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM pockets WHERE budget_id = $1`, b.ID())
		for _, p := range pockets {
			queuePocket(batch, p)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("replace pockets: %w", err)
		}
		return nil
	})
}

func queuePocket(batch *pgx.Batch, p record.Pocket) {
	batch.Queue(`INSERT INTO pockets (budget_id, position, name, limit_amount, currency) VALUES ($1, $2, $3, $4, $5)`,
		p.BudgetID, p.Position, p.Name, p.LimitAmount, p.Currency)
}
