package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"FinanceHarvester/internal/config"
	"FinanceHarvester/internal/pipeline"
)

type runCmd struct {
	symbols string
	start   string
	end     string
	exclude string
	db      string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "download statements and price history for every symbol once" }
func (*runCmd) Usage() string {
	return `harvester run [-symbols A,B] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-exclude A,B] [-db path] [symbol...]

  Fetches the quarterly income statement, balance sheet, cash flow and
  daily price history of each symbol, keeps the rows inside the date
  range and replaces the symbol's tables in the database. Symbols come
  from the arguments, -symbols, or the configured symbols file.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "symbols", "", "Comma-separated symbols. Overrides the symbols file.")
	f.StringVar(&c.start, "start", "", "Start date (defaults to pipeline.start).")
	f.StringVar(&c.end, "end", "", "End date (defaults to today).")
	f.StringVar(&c.exclude, "exclude", "", "Comma-separated symbols to skip.")
	f.StringVar(&c.db, "db", "", "SQLite database path. Overrides database.sqlite_path.")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	if c.db != "" {
		cfg.Database.SQLitePath = c.db
	}
	req := pipeline.Request{
		Symbols: append(config.SplitList(c.symbols), f.Args()...),
		Start:   c.start,
		End:     c.end,
		Exclude: config.SplitList(c.exclude),
	}
	sum := pipeline.RunOnce(ctx, cfg, req, logger)
	sum.Print(os.Stdout)
	return subcommands.ExitSuccess
}
