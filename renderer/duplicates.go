package renderer

import (
	loanvault "github.com/otsdesk/loanvault"
)

type duplicatesView struct {
	Folder     string
	Duplicates []loanvault.LocalDuplicate
	Removed    []string
	DryRun     bool
}

// DuplicatesMarkdown renders the local duplicate report for one loan folder,
// and the cleanup outcome when one was requested.
func DuplicatesMarkdown(folder string, dups []loanvault.LocalDuplicate, removed []string, dryRun bool) string {
	return renderTemplate("duplicates", "duplicates.md", nil, duplicatesView{
		Folder:     folder,
		Duplicates: dups,
		Removed:    removed,
		DryRun:     dryRun,
	})
}
