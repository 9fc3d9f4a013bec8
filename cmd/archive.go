package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	loanvault "github.com/otsdesk/loanvault"
	"github.com/otsdesk/loanvault/renderer"
)

type archiveCmd struct {
	force bool
	year  int
	list  bool
	loan  string
}

func (*archiveCmd) Name() string { return "archive" }
func (*archiveCmd) Synopsis() string {
	return "sweep closed or settled loans into the yearly archive"
}
func (*archiveCmd) Usage() string {
	return `lv archive [-force] [-loan <folder>] | lv archive -list [-year <YYYY>]

  Scans every active loan and moves the closed ones (status CLOSED, or
  outstanding principal at zero) into archives/<year>/. Without -force this
  is a dry-run that only reports what would move. One loan's failure never
  stops the sweep; every outcome is listed.

Usage Examples:
# Report which loans would be archived.
$ lv archive

# Actually archive them.
$ lv archive -force

# List the 2024 archive bucket.
$ lv archive -list -year 2024

`
}

func (c *archiveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Perform the moves instead of the default dry-run.")
	f.IntVar(&c.year, "year", 0, "Restrict -list to one year bucket.")
	f.BoolVar(&c.list, "list", false, "List archived loans instead of sweeping.")
	f.StringVar(&c.loan, "loan", "", "Archive a single loan folder instead of sweeping.")
}

func (c *archiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	archiver := &loanvault.Archiver{Store: Store()}

	if c.list {
		entries, err := archiver.ListArchived(c.year)
		if err != nil {
			return setupError(err)
		}
		printMarkdown(renderer.ArchivedMarkdown(entries))
		return subcommands.ExitSuccess
	}

	dryRun := !c.force

	if c.loan != "" {
		r, err := Store().ReadFolder(c.loan)
		if err != nil {
			return setupError(err)
		}
		msg, err := archiver.ArchiveLoan(c.loan, r, dryRun)
		if err != nil {
			// single-item outcome: reported, exit still zero per contract
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitSuccess
		}
		fmt.Println(msg)
		return subcommands.ExitSuccess
	}

	results, err := archiver.AutoArchiveClosed(dryRun)
	if err != nil {
		return setupError(err)
	}
	printMarkdown(renderer.SweepMarkdown(results, dryRun))
	return subcommands.ExitSuccess
}
