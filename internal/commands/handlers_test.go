package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"budgetbuddy/internal/clock"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage/memory"
	"budgetbuddy/internal/workday"

	"github.com/google/uuid"
)

type recordingPublisher struct {
	mu      sync.Mutex
	budgets []core.BudgetSnapshot
	pockets []core.Pocket
	err     error
}

func (p *recordingPublisher) PublishBudgetCreated(_ context.Context, b core.BudgetSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.budgets = append(p.budgets, b)
	return p.err
}

func (p *recordingPublisher) PublishPocketCreated(_ context.Context, _ uuid.UUID, pocket core.Pocket) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pockets = append(p.pockets, pocket)
	return p.err
}

type fixture struct {
	repo      *memory.Repository
	publisher *recordingPublisher
	budgets   *CreateBudgetHandler
	pockets   *CreatePocketHandler
}

var today = core.NewDate(2024, 11, 20)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry, err := services.NewStrategyRegistry(services.DefaultStrategies(workday.NewOffline(nil))...)
	if err != nil {
		t.Fatal(err)
	}
	repo := memory.New()
	pub := &recordingPublisher{}
	return &fixture{
		repo:      repo,
		publisher: pub,
		budgets:   NewCreateBudgetHandler(clock.Fixed(today), repo, services.NewCreateBudgetService(registry), nil, pub, nil),
		pockets:   NewCreatePocketHandler(repo, nil, pub, nil),
	}
}

func budgetCmd(t *testing.T, name string, start core.Date, limit int64, owners ...uuid.UUID) CreateBudget {
	t.Helper()
	n, err := core.NewName(name)
	if err != nil {
		t.Fatal(err)
	}
	l, err := core.NewLimitFromAmount(limit, core.USD)
	if err != nil {
		t.Fatal(err)
	}
	s, err := core.NewPeriodSchema(18, core.NthWorkingDay)
	if err != nil {
		t.Fatal(err)
	}
	return CreateBudget{StartDate: start, Owners: owners, Name: n, Limit: l, Schema: s}
}

func pocketCmd(t *testing.T, id uuid.UUID, amount int64, cur core.Currency) CreatePocket {
	t.Helper()
	l, err := core.NewLimitFromAmount(amount, cur)
	if err != nil {
		t.Fatal(err)
	}
	return CreatePocket{BudgetID: id, Name: "Pocket", Limit: l}
}

func TestCreateBudgetHandler(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		seed    []CreateBudget
		cmd     CreateBudget
		wantErr error
	}{
		{
			name: "today is allowed",
			cmd:  budgetCmd(t, "Groceries", today, 100000, alice),
		},
		{
			name: "future start computes period",
			cmd:  budgetCmd(t, "Groceries", core.NewDate(2024, 11, 26), 100000, alice),
		},
		{
			name:    "start in the past",
			cmd:     budgetCmd(t, "Groceries", today.AddDays(-1), 100000, alice),
			wantErr: core.ErrInvalidDate,
		},
		{
			name:    "same name and owner",
			seed:    []CreateBudget{budgetCmd(t, "Groceries", today, 100000, alice)},
			cmd:     budgetCmd(t, "Groceries", today, 100000, alice),
			wantErr: core.ErrBudgetAlreadyExists,
		},
		{
			name:    "same name overlapping owners",
			seed:    []CreateBudget{budgetCmd(t, "Groceries", today, 100000, alice, bob)},
			cmd:     budgetCmd(t, "Groceries", today, 100000, bob),
			wantErr: core.ErrBudgetAlreadyExists,
		},
		{
			name: "same name different owner",
			seed: []CreateBudget{budgetCmd(t, "Groceries", today, 100000, alice)},
			cmd:  budgetCmd(t, "Groceries", today, 100000, bob),
		},
		{
			name:    "no owners",
			cmd:     budgetCmd(t, "Groceries", today, 100000),
			wantErr: core.ErrNoOwners,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			for _, s := range tt.seed {
				if _, err := f.budgets.Handle(ctx, s); err != nil {
					t.Fatalf("seed: %v", err)
				}
			}

			got, err := f.budgets.Handle(ctx, tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Handle() error = %v, want %v", err, tt.wantErr)
				}
				if f.repo.Len() != len(tt.seed) {
					t.Errorf("repository holds %d budgets, want %d", f.repo.Len(), len(tt.seed))
				}
				return
			}
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got.Period().Start() != tt.cmd.StartDate {
				t.Errorf("Period().Start() = %v, want %v", got.Period().Start(), tt.cmd.StartDate)
			}
			if got.Period().End() != core.NewDate(2024, 12, 27) {
				t.Errorf("Period().End() = %v, want 2024-12-27", got.Period().End())
			}
			if _, err := f.repo.GetByID(ctx, got.ID()); err != nil {
				t.Errorf("budget not persisted: %v", err)
			}
			if n, want := len(f.publisher.budgets), 1+len(tt.seed); n != want {
				t.Errorf("published %d budget events, want %d", n, want)
			}
		})
	}
}

func TestCreateBudgetHandler_OwnerlessBudgetsNeverStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cmd := budgetCmd(t, "Groceries", today, 100000)

	for i := 0; i < 3; i++ {
		if _, err := f.budgets.Handle(ctx, cmd); !errors.Is(err, core.ErrNoOwners) {
			t.Fatalf("Handle() error = %v, want ErrNoOwners", err)
		}
	}
	if f.repo.Len() != 0 {
		t.Errorf("repository holds %d budgets, want 0", f.repo.Len())
	}
	if n := len(f.publisher.budgets); n != 0 {
		t.Errorf("published %d budget events, want 0", n)
	}
}

func TestCreateBudgetHandler_ConcurrentSameName(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	cmd := budgetCmd(t, "Groceries", today, 100000, owner)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.budgets.Handle(context.Background(), cmd)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, dup := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, core.ErrBudgetAlreadyExists):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 9 {
		t.Errorf("succeeded = %d, duplicates = %d, want 1 and 9", ok, dup)
	}
}

func TestCreateBudgetHandler_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	if _, err := f.budgets.Handle(context.Background(), budgetCmd(t, "Groceries", today, 100000, uuid.New())); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if f.repo.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.repo.Len())
	}
}

func TestCreatePocketHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.budgets.Handle(ctx, budgetCmd(t, "Household", today, 200000, uuid.New()))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		cmd          CreatePocket
		wantErr      error
		wantHeadroom int64
	}{
		{"missing budget", pocketCmd(t, uuid.New(), 50000, core.USD), core.ErrBudgetNotFound, 200000},
		{"far above the limit", pocketCmd(t, b.ID(), 200000000, core.USD), core.ErrPocketLimitExceedsBudgetLimit, 200000},
		{"other currency", pocketCmd(t, b.ID(), 50000, core.EUR), core.ErrCurrencyMismatch, 200000},
		{"first pocket", pocketCmd(t, b.ID(), 120000, core.USD), nil, 80000},
		{"above remaining headroom", pocketCmd(t, b.ID(), 80100, core.USD), core.ErrPocketLimitExceedsBudgetLimit, 80000},
		{"exactly remaining headroom", pocketCmd(t, b.ID(), 80000, core.USD), nil, 0},
		{"budget exhausted", pocketCmd(t, b.ID(), 30000, core.USD), core.ErrPocketLimitExceedsBudgetLimit, 0},
	}

	// Cases run in order: each successful pocket shrinks the headroom.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.pockets.Handle(ctx, tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Handle() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			stored, err := f.repo.GetByID(ctx, b.ID())
			if err != nil {
				t.Fatal(err)
			}
			if got := stored.RemainingHeadroom().Amount(); got != tt.wantHeadroom {
				t.Errorf("RemainingHeadroom() = %d, want %d", got, tt.wantHeadroom)
			}
		})
	}

	if n := len(f.publisher.pockets); n != 2 {
		t.Errorf("published %d pocket events, want 2", n)
	}
}

func TestCreatePocketHandler_ConcurrentNeverExceedsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.budgets.Handle(ctx, budgetCmd(t, "Household", today, 100000, uuid.New()))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.pockets.Handle(ctx, pocketCmd(t, b.ID(), 30000, core.USD))
		}()
	}
	wg.Wait()

	stored, err := f.repo.GetByID(ctx, b.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(stored.Pockets()); got != 3 {
		t.Errorf("stored %d pockets, want 3", got)
	}
	if got := stored.RemainingHeadroom().Amount(); got != 10000 {
		t.Errorf("RemainingHeadroom() = %d, want 10000", got)
	}
}
