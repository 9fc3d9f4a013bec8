package loanvault

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/otsdesk/loanvault/date"
)

// Archiver relocates closed or settled loans from the active set into
// year-bucketed archive storage under <root>/archives/<YYYY>/. The
// transition is one-directional: un-archiving is a manual operation outside
// this subsystem.
type Archiver struct {
	Store *Store
}

// IsClosed reports whether the loan is eligible for archival. Two
// independent signals qualify: an explicit CLOSED status, or a balance paid
// down to zero that nobody has status-flagged yet.
func IsClosed(r *LoanRecord) bool {
	return r.Status == StatusClosed || r.Outstanding <= 0
}

// signalsDisagree reports a record that is closed by exactly one of the two
// signals. Nothing reconciles them; the sweep just warns.
func signalsDisagree(r *LoanRecord) bool {
	return (r.Status == StatusClosed) != (r.Outstanding <= 0)
}

// ResolveArchiveYear picks the year bucket for a loan: the first parseable
// closure/settlement date on the record wins over the wall clock, so a batch
// archived late still lands in the year it actually closed.
func (a *Archiver) ResolveArchiveYear(r *LoanRecord) int {
	for _, s := range []string{r.ClosureDate, r.ClosedAt, r.SettlementDate, r.EndDate} {
		if y, ok := parseYear(s); ok {
			return y
		}
	}
	return date.Today().Year()
}

// parseYear extracts the calendar year from an ISO date or datetime string.
func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if d, err := date.Parse(s); err == nil {
		return d.Year(), true
	}
	// tolerate a full timestamp by keeping the date part
	if len(s) > len(date.DateFormat) {
		if d, err := date.Parse(s[:len(date.DateFormat)]); err == nil {
			return d.Year(), true
		}
	}
	return 0, false
}

// ArchiveLoan relocates one loan folder to archives/<year>/<folderName>.
// An existing destination fails the move with ErrAlreadyArchived and leaves
// the source untouched; there is no silent merge. With dryRun it reports the
// would-be move without performing it. The move itself is a single rename.
func (a *Archiver) ArchiveLoan(loanFolder string, r *LoanRecord, dryRun bool) (string, error) {
	if _, err := os.Stat(loanFolder); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("loan folder %q: %w", loanFolder, ErrNotFound)
	}

	year := a.ResolveArchiveYear(r)
	destDir := filepath.Join(a.Store.ArchivesDir(), strconv.Itoa(year))
	dest := filepath.Join(destDir, filepath.Base(loanFolder))

	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("%q: %w", dest, ErrAlreadyArchived)
	}

	if dryRun {
		return fmt.Sprintf("[DRY-RUN] would move %s to %s", loanFolder, dest), nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("could not create archive bucket %q: %w", destDir, err)
	}
	if err := os.Rename(loanFolder, dest); err != nil {
		return "", fmt.Errorf("could not archive %q: %w", loanFolder, err)
	}
	return fmt.Sprintf("archived %s to %d/", filepath.Base(loanFolder), year), nil
}

// ArchiveResult is the outcome for one loan in an archive sweep.
type ArchiveResult struct {
	Folder  string
	Loan    string // folder base name
	Year    int
	Message string
	Err     error
}

// AutoArchiveClosed sweeps every active loan folder and archives each one
// for which IsClosed holds, in discovery order. One loan's failure — an
// unreadable record, a destination collision — is recorded in its result and
// the sweep continues; re-running the sweep is always safe.
func (a *Archiver) AutoArchiveClosed(dryRun bool) ([]ArchiveResult, error) {
	folders, err := a.Store.ActiveFolders()
	if err != nil {
		return nil, err
	}

	var results []ArchiveResult
	for _, folder := range folders {
		r, err := a.Store.ReadFolder(folder)
		if err != nil {
			results = append(results, ArchiveResult{Folder: folder, Loan: filepath.Base(folder), Err: err})
			continue
		}
		if !IsClosed(r) {
			continue
		}
		if signalsDisagree(r) {
			log.Printf("warning: %s/%s closed by one signal only (status=%s outstanding=%d)",
				r.Provider, r.Account(), r.Status, r.Outstanding)
		}
		res := ArchiveResult{Folder: folder, Loan: filepath.Base(folder), Year: a.ResolveArchiveYear(r)}
		res.Message, res.Err = a.ArchiveLoan(folder, r, dryRun)
		results = append(results, res)
	}
	return results, nil
}

// ArchiveEntry is one relocated loan folder in the archive tree.
type ArchiveEntry struct {
	Year int
	Loan string
	Path string
}

// ListArchived reads the archive tree, optionally filtered to one year
// bucket (year 0 means all years). Pure read.
func (a *Archiver) ListArchived(year int) ([]ArchiveEntry, error) {
	yearDirs, err := os.ReadDir(a.Store.ArchivesDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not scan archives: %w", err)
	}

	var entries []ArchiveEntry
	for _, yd := range yearDirs {
		if !yd.IsDir() {
			continue
		}
		y, err := strconv.Atoi(yd.Name())
		if err != nil {
			continue // not a year bucket
		}
		if year != 0 && y != year {
			continue
		}
		loanDirs, err := os.ReadDir(filepath.Join(a.Store.ArchivesDir(), yd.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not scan archive year %q: %w", yd.Name(), err)
		}
		for _, ld := range loanDirs {
			if !ld.IsDir() {
				continue
			}
			entries = append(entries, ArchiveEntry{
				Year: y,
				Loan: ld.Name(),
				Path: filepath.Join(a.Store.ArchivesDir(), yd.Name(), ld.Name()),
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year < entries[j].Year
		}
		return entries[i].Loan < entries[j].Loan
	})
	return entries, nil
}
