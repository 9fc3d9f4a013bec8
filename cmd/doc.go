package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type docCmd struct {
	loan      string
	checkOnly bool
}

func (*docCmd) Name() string     { return "doc" }
func (*docCmd) Synopsis() string { return "check a document against the duplicate index and register it" }
func (*docCmd) Usage() string {
	return `lv doc [-loan <folder>] [-check] <file>

  Hashes the file and looks it up in the portfolio-wide duplicate index.
  A file whose bytes are already registered is reported as a duplicate of
  the original, whatever its filename. A new file is registered, optionally
  owned by a loan folder. Registering known bytes again just refreshes the
  entry; re-verifying a document is not an error.

Usage Examples:
# Check and register a fresh statement.
$ lv doc -loan loans/hdfc-hdfc24loan1 statement_mar.pdf

# Only check, register nothing.
$ lv doc -check statement_mar.pdf

`
}

func (c *docCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.loan, "loan", "", "Loan folder that owns the document.")
	f.BoolVar(&c.checkOnly, "check", false, "Only check for a duplicate, do not register.")
}

func (c *docCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one file path")
		return subcommands.ExitUsageError
	}
	file := f.Arg(0)

	index, err := OpenIndex()
	if err != nil {
		return setupError(err)
	}

	dup, existing, err := index.IsDuplicate(file)
	if err != nil {
		return setupError(err)
	}
	if dup {
		fmt.Printf("DUPLICATE %s\n", file)
		fmt.Printf("  matches %s (registered %s)\n", existing.FullPath, existing.RegisteredAt.Format("2006-01-02"))
		if existing.LoanFolder != "" {
			fmt.Printf("  owned by %s\n", existing.LoanFolder)
		}
		return subcommands.ExitSuccess
	}

	fmt.Printf("UNIQUE %s\n", file)
	if c.checkOnly {
		return subcommands.ExitSuccess
	}
	if err := index.Register(file, c.loan); err != nil {
		return setupError(err)
	}
	fmt.Println("registered")
	return subcommands.ExitSuccess
}
