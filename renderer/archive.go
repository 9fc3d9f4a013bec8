package renderer

import (
	loanvault "github.com/otsdesk/loanvault"
)

type sweepRow struct {
	Loan    string
	Year    int
	Outcome string
}

type sweepView struct {
	DryRun   bool
	Rows     []sweepRow
	Archived int
	Failed   int
}

// SweepMarkdown renders the per-loan outcomes of an archive sweep. Failures
// appear in the same table as successes; nothing is dropped.
func SweepMarkdown(results []loanvault.ArchiveResult, dryRun bool) string {
	view := sweepView{DryRun: dryRun}
	for _, r := range results {
		row := sweepRow{Loan: r.Loan, Year: r.Year}
		if r.Err != nil {
			row.Outcome = "FAILED: " + r.Err.Error()
			view.Failed++
		} else {
			row.Outcome = r.Message
			view.Archived++
		}
		view.Rows = append(view.Rows, row)
	}
	return renderTemplate("sweep", "sweep.md", nil, view)
}

type archivedView struct {
	Entries []loanvault.ArchiveEntry
	Count   int
}

// ArchivedMarkdown renders the archive tree listing.
func ArchivedMarkdown(entries []loanvault.ArchiveEntry) string {
	return renderTemplate("archived", "archived.md", nil, archivedView{Entries: entries, Count: len(entries)})
}
