package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/otsdesk/loanvault/renderer"
)

type migrateCmd struct {
	force bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "migrate legacy loans/Provider/Account/ folders to the canonical layout" }
func (*migrateCmd) Usage() string {
	return `lv migrate [-force]

  Copies every legacy loan folder (loans/Provider/Account/meta.json) into
  the canonical loans/provider-account/ shape, recording provenance in the
  new record. The migration is additive and repeatable: sources are never
  deleted, and existing destination files are never overwritten. Without
  -force this is a dry-run.

`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Perform the migration instead of the default dry-run.")
}

func (c *migrateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dryRun := !c.force
	results, err := Store().MigrateLegacy(dryRun)
	if err != nil {
		return setupError(err)
	}
	printMarkdown(renderer.MigrationMarkdown(results, dryRun))
	return subcommands.ExitSuccess
}
