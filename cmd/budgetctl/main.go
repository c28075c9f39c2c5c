// Command budgetctl creates budgets and pockets from the command line.
//
// Usage:
//
//	budgetctl create-budget -name Groceries -owners <uuid>[,<uuid>] -limit 1200 -currency USD -start 2024-11-26 -kind working -day 18
//	budgetctl create-pocket -budget <uuid> -limit 300 -currency USD [-name Food]
//	budgetctl period -start 2024-11-26 -kind regular -day 6
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"budgetbuddy/internal/backend"
	"budgetbuddy/internal/cli"
	"budgetbuddy/internal/commands"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/ports"

	"github.com/google/uuid"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	app, err := backend.NewApp(res.Backend, logger)
	if err != nil {
		logger.Error("Failed to build application", log.FieldError, err.Error())
		_ = res.Cleanup()
		os.Exit(1)
	}

	err = run(ctx, os.Args[1:], os.Stdout, app, res.Backend.Clock)
	if cerr := res.Cleanup(); cerr != nil {
		logger.Warn("Cleanup failed", log.FieldError, cerr.Error())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "budgetctl:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: budgetctl <create-budget|create-pocket|period> [flags]")

func run(ctx context.Context, args []string, out io.Writer, app *backend.App, clock ports.Clock) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "create-budget":
		return createBudget(ctx, args[1:], out, app, clock)
	case "create-pocket":
		return createPocket(ctx, args[1:], out, app)
	case "period":
		return period(ctx, args[1:], out, app, clock)
	}
	return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
}

func createBudget(ctx context.Context, args []string, out io.Writer, app *backend.App, clock ports.Clock) error {
	fs := flag.NewFlagSet("create-budget", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "budget name (at least 3 characters)")
	owners := fs.String("owners", "", "comma-separated owner UUIDs")
	limit := fs.String("limit", "", "limit in major units, e.g. 1200 or 1200.00")
	currency := fs.String("currency", "USD", "ISO-4217 currency code")
	start := fs.String("start", "", "start date YYYY-MM-DD (default today)")
	kind := fs.String("kind", string(core.NthWorkingDay), "period kind: NTH_WORKING_DAY|NTH_REGULAR_DAY (or working|regular)")
	day := fs.Int("day", 0, "n-th day of the following month ending the period")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := commands.CreateBudget{}
	var err error
	if cmd.Name, err = core.NewName(*name); err != nil {
		return err
	}
	if cmd.Owners, err = parseOwners(*owners); err != nil {
		return err
	}
	if cmd.Limit, err = parseLimit(*limit, *currency); err != nil {
		return err
	}
	if cmd.StartDate, err = parseStart(*start, clock); err != nil {
		return err
	}
	if cmd.Schema, err = parseSchema(*kind, *day); err != nil {
		return err
	}

	b, err := app.Budgets.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	printBudget(out, "Budget created", b)
	return nil
}

func createPocket(ctx context.Context, args []string, out io.Writer, app *backend.App) error {
	fs := flag.NewFlagSet("create-pocket", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	budgetID := fs.String("budget", "", "budget UUID")
	limit := fs.String("limit", "", "pocket limit in major units")
	currency := fs.String("currency", "USD", "ISO-4217 currency code")
	name := fs.String("name", "", "optional pocket label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*budgetID)
	if err != nil {
		return fmt.Errorf("invalid -budget %q: %w", *budgetID, err)
	}
	l, err := parseLimit(*limit, *currency)
	if err != nil {
		return err
	}

	b, err := app.Pockets.Handle(ctx, commands.CreatePocket{BudgetID: id, Name: *name, Limit: l})
	if err != nil {
		return err
	}
	printBudget(out, "Pocket created", b)
	return nil
}

func period(ctx context.Context, args []string, out io.Writer, app *backend.App, clock ports.Clock) error {
	fs := flag.NewFlagSet("period", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	start := fs.String("start", "", "start date YYYY-MM-DD (default today)")
	kind := fs.String("kind", string(core.NthWorkingDay), "period kind")
	day := fs.Int("day", 0, "n-th day of the following month")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, err := parseStart(*start, clock)
	if err != nil {
		return err
	}
	schema, err := parseSchema(*kind, *day)
	if err != nil {
		return err
	}
	p, err := app.Periods.ComputePeriod(ctx, from, schema)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s (%d days)\n", schema, p, p.Days())
	return nil
}

func parseOwners(s string) ([]uuid.UUID, error) {
	var owners []uuid.UUID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid owner %q: %w", part, err)
		}
		owners = append(owners, id)
	}
	if len(owners) == 0 {
		return nil, fmt.Errorf("%w: pass at least one UUID with -owners", core.ErrNoOwners)
	}
	return owners, nil
}

func parseLimit(amount, currency string) (core.Limit, error) {
	cur, err := core.ParseCurrency(currency)
	if err != nil {
		return core.Limit{}, err
	}
	m, err := core.ParseMoney(amount, cur)
	if err != nil {
		return core.Limit{}, err
	}
	return core.NewLimit(m)
}

func parseStart(s string, clock ports.Clock) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return clock.Today(), nil
	}
	return core.ParseDate(s)
}

func parseSchema(kind string, day int) (core.PeriodSchema, error) {
	k, err := core.ParsePeriodKind(kind)
	if err != nil {
		return core.PeriodSchema{}, err
	}
	return core.NewPeriodSchema(day, k)
}

func printBudget(out io.Writer, title string, b *core.Budget) {
	fmt.Fprintln(out, title)
	fmt.Fprintf(out, "  id:        %s\n", b.ID())
	fmt.Fprintf(out, "  name:      %s\n", b.Name())
	fmt.Fprintf(out, "  limit:     %s\n", b.Limit())
	fmt.Fprintf(out, "  period:    %s (%s)\n", b.Period(), b.Schema())
	owners := make([]string, 0, len(b.Owners()))
	for _, o := range b.Owners() {
		owners = append(owners, o.String())
	}
	fmt.Fprintf(out, "  owners:    %s\n", strings.Join(owners, ", "))
	for _, p := range b.Pockets() {
		label := p.Name
		if label == "" {
			label = "(unnamed)"
		}
		fmt.Fprintf(out, "  pocket:    %s %s\n", label, p.Limit)
	}
	fmt.Fprintf(out, "  remaining: %s\n", b.RemainingHeadroom())
}
