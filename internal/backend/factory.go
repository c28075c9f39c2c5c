package backend

import (
	"context"
	"errors"
	"fmt"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/clock"
	"budgetbuddy/internal/lock"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/ports"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/memory"
	"budgetbuddy/internal/storage/postgres"
	"budgetbuddy/internal/workday"
	"budgetbuddy/internal/workday/gcal"

	"github.com/redis/go-redis/v9"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend builds every adapter described by config. On failure the
// adapters created so far are closed again.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (result *BackendResult, err error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var closers []CleanupFunc
	defer func() {
		if err != nil {
			runCleanup(closers)
		}
	}()

	b := Backend{Clock: clock.System{Location: config.Location}}

	repo, closeRepo, err := f.createRepository(ctx, config)
	if err != nil {
		return nil, err
	}
	b.Repository = repo
	if closeRepo != nil {
		closers = append(closers, closeRepo)
	}

	if b.Oracle, err = f.createOracle(ctx, config); err != nil {
		return nil, err
	}

	locker, closeLocker, err := f.createLocker(ctx, config)
	if err != nil {
		return nil, err
	}
	b.Locker = locker
	if closeLocker != nil {
		closers = append(closers, closeLocker)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err.Error())
		} else {
			b.Publisher = client
			closers = append(closers, client.Close)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized backend",
		log.FieldBackend, config.Type.String(),
		"holiday_source", string(config.HolidaySource),
		"distributed_lock", config.RedisAddr != "",
		"events_enabled", b.Publisher != nil)

	return &BackendResult{
		Backend: b,
		Cleanup: func() error { return runCleanup(closers) },
	}, nil
}

func (f *DefaultFactory) createRepository(ctx context.Context, config Config) (ports.BudgetRepository, CleanupFunc, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite repository", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil
	case PostgresBackend:
		repo, err := postgres.Open(ctx, config.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres repository")
		return repo, repo.Close, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory repository")
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createOracle(ctx context.Context, config Config) (ports.WorkingDayOracle, error) {
	if config.HolidaySource != GoogleHolidays {
		return workday.NewOffline(nil), nil
	}
	opt, err := gcal.ClientOption(ctx, gcal.Credentials{
		APIKey:             config.GoogleAPIKey,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure Google Calendar: %w", err)
	}
	oracle, err := gcal.New(ctx, config.GoogleHolidayCalendarID, config.HolidayCacheTTL, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Calendar oracle: %w", err)
	}
	f.logger.Info("Initialized Google Calendar holidays", "calendar_id", config.GoogleHolidayCalendarID)
	return oracle, nil
}

func (f *DefaultFactory) createLocker(ctx context.Context, config Config) (ports.NameLocker, CleanupFunc, error) {
	if config.RedisAddr == "" {
		return lock.NewLocal(), nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: config.RedisAddr, DB: config.RedisDB})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", config.RedisAddr, err)
	}
	f.logger.Info("Initialized Redis lock", "addr", config.RedisAddr, "ttl", config.LockTTL.String())
	return lock.NewRedisLocker(client, lock.WithTTL(config.LockTTL)), client.Close, nil
}

// runCleanup closes in reverse creation order and joins the errors.
func runCleanup(closers []CleanupFunc) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
