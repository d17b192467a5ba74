package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"

	"FinanceHarvester/internal/pipeline"
)

type symbolsCmd struct{}

func (*symbolsCmd) Name() string     { return "symbols" }
func (*symbolsCmd) Synopsis() string { return "list the symbols a run would process" }
func (*symbolsCmd) Usage() string {
	return `harvester symbols

  Prints the symbols read from the configured symbols file, one per line.
`
}

func (*symbolsCmd) SetFlags(*flag.FlagSet) {}

func (*symbolsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	syms := pipeline.LoadSymbols(cfg, pipeline.Request{}, logger)
	for _, s := range syms {
		fmt.Println(s)
	}
	fmt.Fprintf(os.Stderr, "%s symbols from %s\n", humanize.Comma(int64(len(syms))), cfg.Pipeline.SymbolsFile)
	if len(syms) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
