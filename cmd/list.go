package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
	loanvault "github.com/otsdesk/loanvault"
	"github.com/otsdesk/loanvault/renderer"
)

type listCmd struct {
	status string
	open   bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the active loans with their settlement numbers" }
func (*listCmd) Usage() string {
	return `lv list [-status <STATUS>] [-open]

  Prints every active loan with its outstanding principal, the 70%
  one-time-settlement offer and the savings that offer represents.
  Archived loans never appear.

`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "", "Only show loans with this status.")
	f.BoolVar(&c.open, "open", false, "Only show loans that are not closed or settled.")
}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var statusFilter loanvault.Status
	if c.status != "" {
		st, err := loanvault.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		statusFilter = st
	}

	store := Store()
	folders, err := store.ActiveFolders()
	if err != nil {
		return setupError(err)
	}

	var loans []*loanvault.LoanRecord
	for _, folder := range folders {
		r, err := store.ReadFolder(folder)
		if err != nil {
			log.Printf("warning: skipping %s: %v", folder, err)
			continue
		}
		if statusFilter != "" && r.Status != statusFilter {
			continue
		}
		if c.open && loanvault.IsClosed(r) {
			continue
		}
		loans = append(loans, r)
	}

	printMarkdown(renderer.PortfolioMarkdown(loans))
	return subcommands.ExitSuccess
}
