package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	loanvault "github.com/otsdesk/loanvault"
	"github.com/otsdesk/loanvault/renderer"
)

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "rebuild the aggregate masters.json from the loan folders" }
func (*syncCmd) Usage() string {
	return `lv sync

  Recomputes the portfolio aggregate (exposure, settlement liability,
  savings) from every active loan folder and atomically replaces
  masters.json. Archived loans are excluded. The rebuild is total: running
  it twice without loan changes produces the same totals.

`
}

func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (c *syncCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	aggregator := &loanvault.Aggregator{Store: Store()}
	view, err := aggregator.Sync()
	if err != nil {
		return setupError(err)
	}
	printMarkdown(renderer.AggregateMarkdown(view))
	return subcommands.ExitSuccess
}
