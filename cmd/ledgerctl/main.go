package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/SscSPs/erp_ledger/internal/platform/config"
)

var (
	// Version is set via ldflags when building.
	Version = ""

	cli struct {
		Version kong.VersionFlag `help:"Show version information"`
		Commands
	}
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := kong.Parse(&cli,
		kong.Vars{"version": buildVersion()},
		kong.Name("ledgerctl"),
		kong.Description("Operate the ledger: run reconciliation batches and print reports."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals, cfg, logger),
	)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
