package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/ports"

	"github.com/google/uuid"
)

var _ ports.BudgetRepository = (*Repository)(nil)

// Integration tests run against POSTGRES_TEST_URL and are skipped without it.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	repo, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newBudget(t *testing.T, name string, owners ...uuid.UUID) *core.Budget {
	t.Helper()
	n, _ := core.NewName(name)
	limit, _ := core.NewLimitFromAmount(200000, core.USD)
	period, _ := core.NewDatePeriod(core.NewDate(2022, 8, 15), core.NewDate(2022, 9, 6))
	schema, _ := core.NewPeriodSchema(6, core.NthRegularDay)
	return core.NewBudget(uuid.New(), n, limit, owners, period, schema)
}

func TestRepository_Lifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	// Unique per run so repeated runs against one database do not collide.
	name := "Budget " + uuid.NewString()[:8]

	b := newBudget(t, name, alice)
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Save(ctx, newBudget(t, name, bob, alice)); !errors.Is(err, core.ErrBudgetAlreadyExists) {
		t.Errorf("Save(duplicate) error = %v, want ErrBudgetAlreadyExists", err)
	}
	exists, err := repo.Exists(ctx, b.Name(), []uuid.UUID{bob, alice})
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v, want true", exists, err)
	}

	pl, _ := core.NewLimitFromAmount(50000, core.USD)
	if err := b.AddPocket(core.Pocket{Name: "Fuel", Limit: pl}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Update(ctx, b); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID())
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Period() != b.Period() || got.RemainingHeadroom().Amount() != 150000 {
		t.Errorf("GetByID() = %+v", got.Snapshot())
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, core.ErrBudgetNotFound) {
		t.Errorf("GetByID(unknown) error = %v, want ErrBudgetNotFound", err)
	}
}
