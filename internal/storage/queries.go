package storage

import (
	"context"
	"database/sql"

	"budgetbuddy/internal/storage/record"

	"github.com/google/uuid"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const insertBudget = `INSERT INTO budgets (id, name, limit_amount, currency, period_start, period_end, schema_kind, schema_day)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertBudget(ctx context.Context, b record.Budget) error {
	_, err := q.db.ExecContext(ctx, insertBudget,
		b.ID.String(), b.Name, b.LimitAmount, b.Currency,
		b.PeriodStart, b.PeriodEnd, b.SchemaKind, b.SchemaDay)
	return err
}

const insertOwner = `INSERT INTO budget_owners (budget_id, owner_id, budget_name) VALUES (?, ?, ?)`

func (q *Queries) InsertOwner(ctx context.Context, budgetID, ownerID uuid.UUID, budgetName string) error {
	_, err := q.db.ExecContext(ctx, insertOwner, budgetID.String(), ownerID.String(), budgetName)
	return err
}

const insertPocket = `INSERT INTO pockets (budget_id, position, name, limit_amount, currency) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertPocket(ctx context.Context, p record.Pocket) error {
	_, err := q.db.ExecContext(ctx, insertPocket, p.BudgetID.String(), p.Position, p.Name, p.LimitAmount, p.Currency)
	return err
}

const deletePockets = `DELETE FROM pockets WHERE budget_id = ?`

func (q *Queries) DeletePockets(ctx context.Context, budgetID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deletePockets, budgetID.String())
	return err
}

const countByNameOwner = `SELECT COUNT(*) FROM budget_owners WHERE budget_name = ? AND owner_id = ?`

func (q *Queries) CountByNameOwner(ctx context.Context, name string, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countByNameOwner, name, ownerID.String()).Scan(&n)
	return n, err
}

const getBudget = `SELECT id, name, limit_amount, currency, period_start, period_end, schema_kind, schema_day
FROM budgets WHERE id = ?`

func (q *Queries) GetBudget(ctx context.Context, id uuid.UUID) (record.Budget, error) {
	var b record.Budget
	var rawID string
	err := q.db.QueryRowContext(ctx, getBudget, id.String()).Scan(
		&rawID, &b.Name, &b.LimitAmount, &b.Currency,
		&b.PeriodStart, &b.PeriodEnd, &b.SchemaKind, &b.SchemaDay)
	if err != nil {
		return b, err
	}
	b.ID, err = uuid.Parse(rawID)
	return b, err
}

const listOwners = `SELECT owner_id FROM budget_owners WHERE budget_id = ? ORDER BY rowid`

func (q *Queries) ListOwners(ctx context.Context, budgetID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listOwners, budgetID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var owners []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

const listPockets = `SELECT position, name, limit_amount, currency FROM pockets WHERE budget_id = ? ORDER BY position`

func (q *Queries) ListPockets(ctx context.Context, budgetID uuid.UUID) ([]record.Pocket, error) {
	rows, err := q.db.QueryContext(ctx, listPockets, budgetID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pockets []record.Pocket
	for rows.Next() {
		p := record.Pocket{BudgetID: budgetID}
		if err := rows.Scan(&p.Position, &p.Name, &p.LimitAmount, &p.Currency); err != nil {
			return nil, err
		}
		pockets = append(pockets, p)
	}
	return pockets, rows.Err()
}
