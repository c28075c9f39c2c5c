// Package gcal implements a working-day oracle backed by a public Google
// holiday calendar, e.g. "en.polish#holiday@group.v.calendar.google.com".
package gcal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/ports"
	"budgetbuddy/internal/workday"

	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/calendar/v3"
	goption "google.golang.org/api/option"
)

const dateLayout = "2006-01-02"

// fetchTimeout bounds one year's holiday load.
const fetchTimeout = 30 * time.Second

var _ ports.WorkingDayOracle = (*Oracle)(nil)

// Oracle treats weekends and every all-day event of the calendar as
// non-working days. Holidays are fetched once per year and cached.
type Oracle struct {
	svc        *calendar.Service
	calendarID string
	holidays   cache.Cache[map[string]string]
	loads      singleflight.Group
}

// New creates an oracle for calendarID. Holiday sets are cached for ttl.
func New(ctx context.Context, calendarID string, ttl time.Duration, opts ...goption.ClientOption) (*Oracle, error) {
	if strings.TrimSpace(calendarID) == "" {
		return nil, errors.New("missing calendar id")
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Oracle{
		svc:        svc,
		calendarID: calendarID,
		holidays:   cache.NewLRUCache[map[string]string](16, ttl),
	}, nil
}

// Credentials selects how the Calendar API is authenticated. APIKey wins
// over the service account; ServiceAccountJSON wins over the file.
type Credentials struct {
	APIKey             string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// ClientOption turns creds into a client option for New.
func ClientOption(ctx context.Context, creds Credentials) (goption.ClientOption, error) {
	if key := strings.TrimSpace(creds.APIKey); key != "" {
		log.FromContext(ctx).WithComponent(log.ComponentCalendar).InfoContext(ctx, "Using API key for Google Calendar")
		return goption.WithAPIKey(key), nil
	}

	credentialsJSON := []byte(strings.TrimSpace(creds.ServiceAccountJSON))
	if len(credentialsJSON) == 0 {
		file := strings.TrimSpace(creds.ServiceAccountFile)
		if file == "" {
			return nil, errors.New("missing Google credentials (set GOOGLE_API_KEY, GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
		}
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	}

	gc, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	log.FromContext(ctx).WithComponent(log.ComponentCalendar).InfoContext(ctx, "Using service account for Google Calendar", "project_id", gc.ProjectID)
	return goption.WithCredentials(gc), nil
}

func (o *Oracle) IsWorkingDay(ctx context.Context, d core.Date) (bool, error) {
	if workday.IsWeekend(d) {
		return false, nil
	}
	_, holiday, err := o.Holiday(ctx, d)
	if err != nil {
		return false, err
	}
	return !holiday, nil
}

// Holiday returns the event summary when d is a holiday.
func (o *Oracle) Holiday(ctx context.Context, d core.Date) (string, bool, error) {
	holidays, err := o.yearHolidays(ctx, d.Year())
	if err != nil {
		return "", false, err
	}
	name, ok := holidays[d.Format(dateLayout)]
	return name, ok, nil
}

// yearHolidays returns the holidays of year keyed by ISO date. Concurrent
// misses for the same year share one API call.
func (o *Oracle) yearHolidays(ctx context.Context, year int) (map[string]string, error) {
	key := o.calendarID + ":" + strconv.Itoa(year)
	if h, ok := o.holidays.Get(key); ok {
		return h, nil
	}

	// The shared load ignores the first caller's cancellation; each caller
	// stops waiting on its own ctx.
	ch := o.loads.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		h, err := o.fetchYear(fctx, year)
		if err != nil {
			return nil, err
		}
		o.holidays.Set(key, h)
		return h, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]string), nil
	}
}

func (o *Oracle) fetchYear(ctx context.Context, year int) (map[string]string, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	holidays := make(map[string]string)
	err := o.svc.Events.List(o.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(from.AddDate(1, 0, 0).Format(time.RFC3339)).
		SingleEvents(true).
		MaxResults(250).
		Pages(ctx, func(page *calendar.Events) error {
			for _, ev := range page.Items {
				addEvent(holidays, ev)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list holidays %s %d: %w", o.calendarID, year, err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentCalendar).DebugContext(ctx, "Loaded holiday calendar", "calendar_id", o.calendarID, "year", year, "count", len(holidays))
	return holidays, nil
}

// addEvent records every day covered by an all-day event. The end date of
// an all-day event is exclusive.
func addEvent(holidays map[string]string, ev *calendar.Event) {
	if ev == nil || ev.Start == nil || ev.Start.Date == "" {
		return
	}
	start, err := time.Parse(dateLayout, ev.Start.Date)
	if err != nil {
		return
	}
	end := start.AddDate(0, 0, 1)
	if ev.End != nil && ev.End.Date != "" {
		if e, err := time.Parse(dateLayout, ev.End.Date); err == nil && e.After(start) {
			end = e
		}
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		holidays[d.Format(dateLayout)] = ev.Summary
	}
}
