// Package backend assembles the adapters behind the budgeting ports from
// configuration.
package backend

import (
	"context"
	"time"

	"budgetbuddy/internal/ports"
)

// Backend groups the adapters the command handlers depend on. Publisher is
// nil when events are disabled.
type Backend struct {
	Repository ports.BudgetRepository
	Oracle     ports.WorkingDayOracle
	Locker     ports.NameLocker
	Publisher  ports.EventPublisher
	Clock      ports.Clock
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	PostgresURL  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	RedisAddr string
	RedisDB   int
	LockTTL   time.Duration

	HolidaySource            HolidaySource
	GoogleHolidayCalendarID  string
	GoogleAPIKey             string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	HolidayCacheTTL          time.Duration

	Location *time.Location
}

// BackendType represents the type of storage backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// HolidaySource selects the working-day oracle.
type HolidaySource string

const (
	OfflineHolidays HolidaySource = "offline"
	GoogleHolidays  HolidaySource = "google"
)

func (hs HolidaySource) IsValid() bool {
	return hs == OfflineHolidays || hs == GoogleHolidays
}
