package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_ledger/pkg/database"
)

const dateFormat = "2006-01-02"

// Globals defines flags available to all commands.
type Globals struct {
	Company string `help:"Company to operate on." short:"c" env:"LEDGER_COMPANY_ID"`
	User    string `help:"User recorded on audit fields." default:"system" env:"LEDGER_USER_ID"`
}

type Commands struct {
	Globals

	Migrate   MigrateCmd   `cmd:"" help:"Apply pending database migrations."`
	Reconcile ReconcileCmd `cmd:"" help:"Run a reconciliation batch for one company."`
	Report    ReportCmd    `cmd:"" help:"Print a financial report for one company as JSON."`
	Token     TokenCmd     `cmd:"" help:"Issue an API bearer token."`
}

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(cfg *config.Config, logger *slog.Logger) error {
	return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
}

type ReconcileCmd struct {
	CashPayments struct{} `cmd:"" help:"Reroute cash-paid purchase invoices from payables to cash."`
	Duplicates   struct{} `cmd:"" help:"Delete duplicate postings of the same purchase invoice."`
	SourceLinks  struct{} `cmd:"" help:"Backfill missing source invoice links on journal entries."`
}

func (cmd *ReconcileCmd) Run(kctx *kong.Context, globals *Globals, cfg *config.Config) error {
	return withServices(globals, cfg, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
		var (
			result *domain.BatchResult
			err    error
		)
		switch kctx.Selected().Name {
		case handlers.BatchCashPayments:
			result, err = svc.Reconciliation.ReconcileMissingCashPayments(ctx, globals.Company, globals.User)
		case handlers.BatchDuplicates:
			result, err = svc.Reconciliation.RemoveDuplicateEntries(ctx, globals.Company, globals.User)
		case handlers.BatchSourceLinks:
			result, err = svc.Reconciliation.LinkSourceInvoices(ctx, globals.Company, globals.User)
		default:
			return fmt.Errorf("unknown reconciliation batch %q", kctx.Selected().Name)
		}
		if err != nil {
			return err
		}
		return printJSON(kctx.Stdout, result)
	})
}

type periodFlags struct {
	From time.Time `help:"First day of the period (YYYY-MM-DD)." format:"2006-01-02"`
	To   time.Time `help:"Last day of the period (YYYY-MM-DD)." format:"2006-01-02"`
}

func (p periodFlags) dateRange() (domain.DateRange, error) {
	var r domain.DateRange
	if !p.From.IsZero() {
		from := p.From
		r.From = &from
	}
	if !p.To.IsZero() {
		to := p.To
		r.To = &to
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, fmt.Errorf("--to %s is before --from %s", p.To.Format(dateFormat), p.From.Format(dateFormat))
	}
	return r, nil
}

type asOfFlag struct {
	AsOf time.Time `help:"Report date (YYYY-MM-DD), defaults to today." format:"2006-01-02"`
}

func (a asOfFlag) date() time.Time {
	if a.AsOf.IsZero() {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return a.AsOf
}

type ReportCmd struct {
	TrialBalance        periodFlags `cmd:"" help:"Debit and credit totals per account."`
	ProfitAndLoss       periodFlags `cmd:"" help:"Revenue, expenses and net profit."`
	BalanceSheet        asOfFlag    `cmd:"" help:"Assets, liabilities and equity as of a date."`
	CurrencyDifferences asOfFlag    `cmd:"" help:"Unrealized gains on foreign-currency accounts."`
}

func (cmd *ReportCmd) Run(kctx *kong.Context, globals *Globals, cfg *config.Config) error {
	return withServices(globals, cfg, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
		var (
			report any
			err    error
		)
		switch kctx.Selected().Name {
		case "trial-balance":
			period, perr := cmd.TrialBalance.dateRange()
			if perr != nil {
				return perr
			}
			report, err = svc.Reporting.TrialBalance(ctx, globals.Company, period)
		case "profit-and-loss":
			period, perr := cmd.ProfitAndLoss.dateRange()
			if perr != nil {
				return perr
			}
			report, err = svc.Reporting.ProfitAndLoss(ctx, globals.Company, period)
		case "balance-sheet":
			report, err = svc.Reporting.BalanceSheet(ctx, globals.Company, cmd.BalanceSheet.date())
		case "currency-differences":
			report, err = svc.Reporting.CurrencyDifferences(ctx, globals.Company, cmd.CurrencyDifferences.date())
		default:
			return fmt.Errorf("unknown report %q", kctx.Selected().Name)
		}
		if err != nil {
			return err
		}
		return printJSON(kctx.Stdout, report)
	})
}

type TokenCmd struct {
	TTL time.Duration `help:"Token lifetime, defaults to JWT_EXPIRY_DURATION." name:"ttl"`
}

func (cmd *TokenCmd) Run(kctx *kong.Context, globals *Globals, cfg *config.Config) error {
	ttl := cmd.TTL
	if ttl <= 0 {
		ttl = cfg.JWTExpiryDuration
	}
	token, err := middleware.IssueToken(cfg.JWTSecret, globals.User, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(kctx.Stdout, token)
	return err
}

// withServices opens a pool, builds the service container and runs fn with a
// context carrying the acting user.
func withServices(globals *Globals, cfg *config.Config, fn func(context.Context, *portssvc.ServiceContainer) error) error {
	if globals.Company == "" {
		return fmt.Errorf("--company is required")
	}
	ctx := middleware.WithUserID(context.Background(), globals.User)

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool)

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool))
	return fn(ctx, container)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
