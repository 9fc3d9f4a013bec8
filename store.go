package loanvault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	loansDirName    = "loans"
	archivesDirName = "archives"
	indexFileName   = ".duplicate_index.json"
	mastersFileName = "masters.json"

	recordFileName       = "loan.json"
	legacyRecordFileName = "meta.json"

	// accounts are truncated to keep folder names bounded
	maxAccountLen = 30
)

// CategoryDirs are the document categories every loan folder carries.
var CategoryDirs = []string{"statements", "ots", "closure_proof"}

// Store owns the canonical on-disk shape of the portfolio: one folder per
// loan under <root>/loans, keyed by the normalized (provider, account) pair.
// It is the only component that reads or writes loan records.
type Store struct {
	root string
}

// NewStore returns a store rooted at the given directory. The directory is
// not created until something is written.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string        { return s.root }
func (s *Store) LoansDir() string    { return filepath.Join(s.root, loansDirName) }
func (s *Store) ArchivesDir() string { return filepath.Join(s.root, archivesDirName) }
func (s *Store) IndexPath() string   { return filepath.Join(s.root, indexFileName) }
func (s *Store) MastersPath() string { return filepath.Join(s.root, mastersFileName) }

// NormalizeProvider turns a free-text lender name into a filesystem-safe
// token: lowercased, '&' dropped, whitespace collapsed to '-', '/' replaced.
func NormalizeProvider(provider string) string {
	p := strings.ToLower(provider)
	p = strings.ReplaceAll(p, "&", "")
	p = strings.ReplaceAll(p, "/", "-")
	p = strings.Join(strings.Fields(p), "-")
	if p == "" {
		return "unknown"
	}
	return p
}

// NormalizeAccount canonicalizes a lender-assigned account or agreement
// number: uppercased, whitespace stripped, bounded length.
func NormalizeAccount(account string) string {
	a := strings.ToUpper(account)
	a = strings.Join(strings.Fields(a), "")
	a = strings.ReplaceAll(a, "/", "-")
	if len(a) > maxAccountLen {
		a = a[:maxAccountLen]
	}
	if a == "" {
		return "UNKNOWN"
	}
	return a
}

// FolderName is the canonical folder key for a loan: provider-account,
// lowercased. Two registrations that normalize to the same pair are the same
// loan and share this folder.
func FolderName(provider, account string) string {
	return NormalizeProvider(provider) + "-" + strings.ToLower(NormalizeAccount(account))
}

// LoanFolder returns the canonical folder path for the pair. The folder may
// not exist yet.
func (s *Store) LoanFolder(provider, account string) string {
	return filepath.Join(s.LoansDir(), FolderName(provider, account))
}

// EnsureStructure idempotently creates the loan folder and its document
// category subdirectories. Calling it on an already-correct folder is a
// no-op.
func (s *Store) EnsureStructure(loanFolder string) error {
	if err := os.MkdirAll(loanFolder, 0755); err != nil {
		return fmt.Errorf("could not create loan folder %q: %w", loanFolder, err)
	}
	for _, sub := range CategoryDirs {
		if err := os.MkdirAll(filepath.Join(loanFolder, sub), 0755); err != nil {
			return fmt.Errorf("could not create %s/ in %q: %w", sub, loanFolder, err)
		}
	}
	return nil
}

// Write persists the record wholesale to its folder's loan.json, stamping
// UpdatedAt. There is no partial patching at this layer; callers merge first.
func (s *Store) Write(r *LoanRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	folder := s.LoanFolder(r.Provider, r.Account())
	if err := s.EnsureStructure(folder); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	data, err := EncodeLoanRecord(r)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(folder, recordFileName), data)
}

// ReadFolder loads the record stored in a loan folder, preferring the
// canonical loan.json over a legacy meta.json. It returns ErrNotFound when
// the folder holds neither.
func (s *Store) ReadFolder(loanFolder string) (*LoanRecord, error) {
	for _, name := range []string{recordFileName, legacyRecordFileName} {
		data, err := os.ReadFile(filepath.Join(loanFolder, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not read %s in %q: %w", name, loanFolder, err)
		}
		return DecodeLoanRecord(data)
	}
	return nil, fmt.Errorf("no loan record in %q: %w", loanFolder, ErrNotFound)
}

// Get loads the record for a (provider, account) pair.
func (s *Store) Get(provider, account string) (*LoanRecord, error) {
	return s.ReadFolder(s.LoanFolder(provider, account))
}

// ActiveFolders enumerates every active loan folder, sorted. A directory
// under loans/ that holds a record file is a loan folder; one that does not
// is assumed to be a legacy provider directory and is scanned one level
// deeper. Archived folders never appear here: the walk stays inside loans/.
func (s *Store) ActiveFolders() ([]string, error) {
	entries, err := os.ReadDir(s.LoansDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not scan loans directory: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(s.LoansDir(), e.Name())
		if hasRecordFile(dir) {
			folders = append(folders, dir)
			continue
		}
		// legacy two-level layout: loans/Provider/Account/
		subEntries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("could not scan %q: %w", dir, err)
		}
		for _, sub := range subEntries {
			if !sub.IsDir() {
				continue
			}
			subDir := filepath.Join(dir, sub.Name())
			if hasRecordFile(subDir) {
				folders = append(folders, subDir)
			}
		}
	}
	sort.Strings(folders)
	return folders, nil
}

func hasRecordFile(dir string) bool {
	for _, name := range []string{recordFileName, legacyRecordFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// MigrationResult reports the outcome of migrating one legacy loan folder.
type MigrationResult struct {
	Old      string
	New      string
	Provider string
	Account  string
	Message  string
	Err      error
}

// MigrateFolder copies one legacy loan folder (loans/Provider/Account/) into
// the canonical shape. The source is never touched; every copy is
// copy-if-absent, so running a migration twice neither duplicates files nor
// corrupts the destination. Provenance is recorded as migrated_from in the
// new record.
func (s *Store) MigrateFolder(oldFolder string, dryRun bool) MigrationResult {
	res := MigrationResult{Old: oldFolder}

	legacy, err := s.ReadFolder(oldFolder)
	if err != nil {
		res.Err = err
		return res
	}
	provider := legacy.Provider
	if provider == "" {
		provider = filepath.Base(filepath.Dir(oldFolder))
		legacy.Provider = provider
	}
	account := legacy.Account()
	if account == "" {
		account = filepath.Base(oldFolder)
		legacy.AccountNumber = account
	}
	res.Provider, res.Account = provider, account

	newFolder := s.LoanFolder(provider, account)
	res.New = newFolder
	if dryRun {
		res.Message = fmt.Sprintf("[DRY-RUN] would migrate %s to %s", oldFolder, filepath.Base(newFolder))
		return res
	}

	if err := s.EnsureStructure(newFolder); err != nil {
		res.Err = err
		return res
	}

	// loan.json is written only when absent: a repeated migration must not
	// clobber edits made since the first run.
	recordPath := filepath.Join(newFolder, recordFileName)
	if _, err := os.Stat(recordPath); errors.Is(err, fs.ErrNotExist) {
		legacy.AccountNumber = NormalizeAccount(legacy.Account())
		legacy.MigratedFrom = oldFolder
		legacy.UpdatedAt = time.Now()
		if err := legacy.Validate(); err != nil {
			res.Err = err
			return res
		}
		data, err := EncodeLoanRecord(legacy)
		if err != nil {
			res.Err = err
			return res
		}
		if err := writeFileAtomic(recordPath, data); err != nil {
			res.Err = err
			return res
		}
	}

	// keep the raw legacy record alongside for audit
	if err := copyFileIfAbsent(filepath.Join(oldFolder, legacyRecordFileName), filepath.Join(newFolder, legacyRecordFileName)); err != nil {
		res.Err = err
		return res
	}

	// legacy docs/ becomes statements/
	oldDocs := filepath.Join(oldFolder, "docs")
	if entries, err := os.ReadDir(oldDocs); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			src := filepath.Join(oldDocs, e.Name())
			dst := filepath.Join(newFolder, "statements", e.Name())
			if err := copyFileIfAbsent(src, dst); err != nil {
				res.Err = err
				return res
			}
		}
	}

	res.Message = fmt.Sprintf("migrated %s to %s", oldFolder, filepath.Base(newFolder))
	return res
}

// MigrateLegacy sweeps the legacy two-level layout and migrates every loan it
// finds. One folder's failure does not stop the sweep.
func (s *Store) MigrateLegacy(dryRun bool) ([]MigrationResult, error) {
	entries, err := os.ReadDir(s.LoansDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not scan loans directory: %w", err)
	}

	var results []MigrationResult
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		providerDir := filepath.Join(s.LoansDir(), e.Name())
		if hasRecordFile(providerDir) {
			continue // already canonical
		}
		subEntries, err := os.ReadDir(providerDir)
		if err != nil {
			log.Printf("warning: could not scan %q: %v", providerDir, err)
			continue
		}
		for _, sub := range subEntries {
			if !sub.IsDir() {
				continue
			}
			oldFolder := filepath.Join(providerDir, sub.Name())
			if !hasRecordFile(oldFolder) {
				continue
			}
			results = append(results, s.MigrateFolder(oldFolder, dryRun))
		}
	}
	return results, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over the destination, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("could not create temp file for %q: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close temp file for %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not replace %q: %w", path, err)
	}
	return nil
}

// copyFileIfAbsent copies src to dst unless dst already exists. A missing
// src is not an error.
func copyFileIfAbsent(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("could not copy %q to %q: %w", src, dst, err)
	}
	return out.Close()
}
