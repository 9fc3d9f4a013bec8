// Package cmd implements the CLI application to manage the loan store.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	loanvault "github.com/otsdesk/loanvault"
)

// Commands lists every subcommand. A main package registers them on a
// commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&setCmd{},
	&listCmd{},
	&docCmd{},
	&dupesCmd{},
	&archiveCmd{},
	&syncCmd{},
	&migrateCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var rootDir = flag.String("root", ".", "Path to the storage root (holds loans/, archives/, masters.json)")

// Store returns the loan folder store for the configured root.
func Store() *loanvault.Store {
	return loanvault.NewStore(*rootDir)
}

// OpenIndex opens the duplicate index colocated with the storage root. A
// corrupt index file is reported and treated as empty: dedup history is
// rebuilt as documents get re-registered.
func OpenIndex() (*loanvault.HashIndex, error) {
	idx, err := loanvault.OpenHashIndex(Store().IndexPath())
	if errors.Is(err, loanvault.ErrCorruptIndex) {
		log.Printf("warning: %v, starting with an empty index", err)
		return idx, nil
	}
	return idx, err
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// setupError reports a setup-level failure (storage root unreadable, bad
// flags) that warrants a nonzero exit. Per-item failures inside a batch do
// not go through here; they are part of the rendered result.
func setupError(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
