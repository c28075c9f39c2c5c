package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budgetbuddy/internal/commands"
	"budgetbuddy/internal/config"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/lock"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/memory"
	"budgetbuddy/internal/workday"
	"budgetbuddy/internal/workday/gcal"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) error = nil")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "mongo"}); err == nil {
		t.Error("FromAppConfig(mongo) error = nil")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:   "sqlite",
		SQLiteDBPath:  "/tmp/x.db",
		HolidaySource: "google",
		LockTTL:       time.Minute,
		Timezone:      "Europe/Warsaw",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.HolidaySource != GoogleHolidays || cfg.LockTTL != time.Minute {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
	if cfg.Location == nil || cfg.Location.String() != "Europe/Warsaw" {
		t.Errorf("Location = %v, want Europe/Warsaw", cfg.Location)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown type", Config{Type: "mongo"}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"bad holiday source", Config{Type: MemoryBackend, HolidaySource: "ical"}, true},
		{"google without calendar", Config{Type: MemoryBackend, HolidaySource: GoogleHolidays}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, b Backend)
	}{
		{
			name:   "memory with offline holidays",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, b Backend) {
				if _, ok := b.Repository.(*memory.Repository); !ok {
					t.Errorf("Repository = %T, want *memory.Repository", b.Repository)
				}
				if _, ok := b.Oracle.(*workday.Offline); !ok {
					t.Errorf("Oracle = %T, want *workday.Offline", b.Oracle)
				}
				if _, ok := b.Locker.(*lock.Local); !ok {
					t.Errorf("Locker = %T, want *lock.Local", b.Locker)
				}
				if b.Publisher != nil {
					t.Errorf("Publisher = %T, want nil", b.Publisher)
				}
			},
		},
		{
			name:   "sqlite with redis lock",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "b.db"), RedisAddr: mr.Addr(), LockTTL: time.Second},
			check: func(t *testing.T, b Backend) {
				if _, ok := b.Repository.(*storage.SQLiteRepository); !ok {
					t.Errorf("Repository = %T, want *storage.SQLiteRepository", b.Repository)
				}
				if _, ok := b.Locker.(*lock.RedisLocker); !ok {
					t.Errorf("Locker = %T, want *lock.RedisLocker", b.Locker)
				}
			},
		},
		{
			name: "google holidays",
			config: Config{
				Type:                    MemoryBackend,
				HolidaySource:           GoogleHolidays,
				GoogleHolidayCalendarID: "en.polish#holiday@group.v.calendar.google.com",
				GoogleAPIKey:            "test-key",
				HolidayCacheTTL:         time.Hour,
			},
			check: func(t *testing.T, b Backend) {
				if _, ok := b.Oracle.(*gcal.Oracle); !ok {
					t.Errorf("Oracle = %T, want *gcal.Oracle", b.Oracle)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewFactory(nil).CreateBackend(context.Background(), tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer func() {
				if err := res.Cleanup(); err != nil {
					t.Errorf("Cleanup() error = %v", err)
				}
			}()
			tt.check(t, res.Backend)
		})
	}
}

func TestCreateBackend_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "b.db"),
		RedisAddr:    addr,
	})
	if err == nil {
		t.Fatal("CreateBackend() error = nil, want redis connection error")
	}
}

func TestNewApp(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	app, err := NewApp(res.Backend, nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	name, _ := core.NewName("Household")
	limit, _ := core.NewLimitFromAmount(100000, core.USD)
	schema, _ := core.NewPeriodSchema(6, core.NthRegularDay)
	ctx := context.Background()

	b, err := app.Budgets.Handle(ctx, commands.CreateBudget{
		StartDate: res.Backend.Clock.Today().AddDays(1),
		Owners:    []uuid.UUID{uuid.New()},
		Name:      name,
		Limit:     limit,
		Schema:    schema,
	})
	if err != nil {
		t.Fatalf("CreateBudget error = %v", err)
	}

	pocket, _ := core.NewLimitFromAmount(200000, core.USD)
	_, err = app.Pockets.Handle(ctx, commands.CreatePocket{BudgetID: b.ID(), Limit: pocket})
	if !errors.Is(err, core.ErrPocketLimitExceedsBudgetLimit) {
		t.Errorf("CreatePocket error = %v, want ErrPocketLimitExceedsBudgetLimit", err)
	}
}
