package loanvault

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// hashChunkSize is the read size used when streaming a file through the
// digest; large documents are never loaded whole.
const hashChunkSize = 4096

// Registration is the dedup metadata recorded for one ingested document.
type Registration struct {
	Filename     string    `json:"filename"`
	LoanFolder   string    `json:"loan_folder,omitempty"` // may be registered before a loan folder exists
	FullPath     string    `json:"full_path"`
	Size         int64     `json:"size"`
	RegisteredAt time.Time `json:"registered_at"`
}

// HashIndex maps document content hashes to their registration, preventing
// identical bytes from being ingested twice across the whole portfolio. The
// index is one JSON file colocated with the storage root, rewritten whole on
// every mutation.
//
// The index performs no locking; a single writer at a time is the caller's
// responsibility.
type HashIndex struct {
	path    string
	entries map[string]Registration
}

// OpenHashIndex loads the index at path. A missing file yields an empty
// index. A file that exists but fails to parse also yields an empty index —
// prior dedup history is lost, which the full-rewrite persistence model
// accepts — and the returned error wraps ErrCorruptIndex so the caller can
// surface a warning.
func OpenHashIndex(path string) (*HashIndex, error) {
	idx := &HashIndex{path: path, entries: make(map[string]Registration)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read duplicate index %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &idx.entries); err != nil {
		idx.entries = make(map[string]Registration)
		return idx, fmt.Errorf("%w at %q: %v", ErrCorruptIndex, path, err)
	}
	return idx, nil
}

// Len returns the number of registered documents.
func (x *HashIndex) Len() int { return len(x.entries) }

// ComputeHash streams the file through SHA-256 in fixed-size chunks and
// returns the hex digest.
func ComputeHash(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("could not open %q for hashing: %w", filePath, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("could not hash %q: %w", filePath, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsDuplicate reports whether the file's content is already registered,
// returning the existing registration when it is. Pure query, no mutation.
func (x *HashIndex) IsDuplicate(filePath string) (bool, *Registration, error) {
	hash, err := ComputeHash(filePath)
	if err != nil {
		return false, nil, err
	}
	if reg, ok := x.entries[hash]; ok {
		return true, &reg, nil
	}
	return false, nil, nil
}

// Register records the file's content hash and persists the whole index.
// Re-registering a known hash refreshes its metadata (last writer wins):
// re-verifying an existing document is not an error.
func (x *HashIndex) Register(filePath, loanFolder string) error {
	hash, err := ComputeHash(filePath)
	if err != nil {
		return err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("could not stat %q: %w", filePath, err)
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	x.entries[hash] = Registration{
		Filename:     filepath.Base(filePath),
		LoanFolder:   loanFolder,
		FullPath:     abs,
		Size:         info.Size(),
		RegisteredAt: time.Now(),
	}
	return x.save()
}

func (x *HashIndex) save() error {
	data, err := json.MarshalIndent(x.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode duplicate index: %w", err)
	}
	return writeFileAtomic(x.path, append(data, '\n'))
}

// LocalDuplicate is a file sharing a hash with an earlier-seen file in the
// same loan folder scan.
type LocalDuplicate struct {
	File        string // relative to the loan folder
	DuplicateOf string
	Hash        string
}

// FindDuplicatesWithin scans the loan folder's document categories and
// reports files whose content repeats a file seen earlier in the same scan.
// This is local, ephemeral detection, independent of the global index; an
// unreadable file is logged and skipped, never aborting the scan.
func (x *HashIndex) FindDuplicatesWithin(loanFolder string) ([]LocalDuplicate, error) {
	if _, err := os.Stat(loanFolder); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loan folder %q: %w", loanFolder, ErrNotFound)
	}

	var duplicates []LocalDuplicate
	seen := make(map[string]string) // hash -> first file seen

	for _, sub := range CategoryDirs {
		subdir := filepath.Join(loanFolder, sub)
		if _, err := os.Stat(subdir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(subdir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			hash, err := ComputeHash(p)
			if err != nil {
				log.Printf("warning: %v", err)
				return nil
			}
			rel, err := filepath.Rel(loanFolder, p)
			if err != nil {
				return err
			}
			if first, ok := seen[hash]; ok {
				duplicates = append(duplicates, LocalDuplicate{File: rel, DuplicateOf: first, Hash: hash})
			} else {
				seen[hash] = rel
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not scan %q: %w", subdir, err)
		}
	}
	return duplicates, nil
}

// CleanupDuplicates removes all but the first-seen file for each locally
// duplicated hash and returns the removed paths. With dryRun — the default
// everywhere this is exposed — it only reports what would be removed.
func (x *HashIndex) CleanupDuplicates(loanFolder string, dryRun bool) ([]string, error) {
	duplicates, err := x.FindDuplicatesWithin(loanFolder)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, dup := range duplicates {
		path := filepath.Join(loanFolder, dup.File)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if !dryRun {
			if err := os.Remove(path); err != nil {
				log.Printf("warning: could not remove duplicate %q: %v", path, err)
				continue
			}
		}
		removed = append(removed, path)
	}
	return removed, nil
}
