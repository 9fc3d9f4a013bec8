package renderer

import (
	loanvault "github.com/otsdesk/loanvault"
)

type migrationRow struct {
	Old     string
	New     string
	Outcome string
}

type migrationView struct {
	DryRun   bool
	Rows     []migrationRow
	Migrated int
	Failed   int
}

// MigrationMarkdown renders the outcome of a legacy structure migration.
func MigrationMarkdown(results []loanvault.MigrationResult, dryRun bool) string {
	view := migrationView{DryRun: dryRun}
	for _, r := range results {
		row := migrationRow{Old: r.Old, New: r.New}
		if r.Err != nil {
			row.Outcome = "FAILED: " + r.Err.Error()
			view.Failed++
		} else {
			row.Outcome = r.Message
			view.Migrated++
		}
		view.Rows = append(view.Rows, row)
	}
	return renderTemplate("migration", "migration.md", nil, view)
}
