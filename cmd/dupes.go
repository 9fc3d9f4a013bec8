package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/otsdesk/loanvault/renderer"
)

type dupesCmd struct {
	loan    string
	cleanup bool
	force   bool
}

func (*dupesCmd) Name() string     { return "dupes" }
func (*dupesCmd) Synopsis() string { return "find duplicate documents inside one loan folder" }
func (*dupesCmd) Usage() string {
	return `lv dupes -loan <folder> [-cleanup [-force]]

  Scans the loan's document categories (statements/, ots/, closure_proof/)
  and reports files whose bytes repeat an earlier file in the same scan.
  -cleanup removes all but the first occurrence; without -force it only
  reports what would be removed.

`
}

func (c *dupesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.loan, "loan", "", "Loan folder to scan.")
	f.BoolVar(&c.cleanup, "cleanup", false, "Remove duplicates, keeping the first occurrence.")
	f.BoolVar(&c.force, "force", false, "Actually remove files instead of the default dry-run.")
}

func (c *dupesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.loan == "" {
		fmt.Fprintln(os.Stderr, "-loan is required")
		return subcommands.ExitUsageError
	}

	index, err := OpenIndex()
	if err != nil {
		return setupError(err)
	}

	dups, err := index.FindDuplicatesWithin(c.loan)
	if err != nil {
		return setupError(err)
	}

	var removed []string
	dryRun := !c.force
	if c.cleanup {
		removed, err = index.CleanupDuplicates(c.loan, dryRun)
		if err != nil {
			return setupError(err)
		}
	}

	printMarkdown(renderer.DuplicatesMarkdown(c.loan, dups, removed, dryRun))
	return subcommands.ExitSuccess
}
