package loanvault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestComputeHash(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.pdf", "same bytes")
	b := writeDoc(t, dir, "b.pdf", "same bytes")
	c := writeDoc(t, dir, "c.pdf", "other bytes")

	ha, err := ComputeHash(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := ComputeHash(b)
	hc, _ := ComputeHash(c)
	if ha != hb {
		t.Error("identical bytes must hash identically whatever the filename")
	}
	if ha == hc {
		t.Error("different bytes must not collide")
	}
	if len(ha) != 64 {
		t.Errorf("hex sha256 should be 64 chars, got %d", len(ha))
	}

	if _, err := ComputeHash(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("hashing a missing file should fail")
	}
}

func TestRegisterAndIsDuplicate(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, ".duplicate_index.json")

	idx, err := OpenHashIndex(indexPath)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Fatalf("new index should be empty, has %d", idx.Len())
	}

	original := writeDoc(t, dir, "statement_mar.pdf", "statement bytes")
	if err := idx.Register(original, "loans/hdfc-bank-a1"); err != nil {
		t.Fatal(err)
	}

	// same bytes under a new name is a duplicate of the original
	renamed := writeDoc(t, dir, "scan_final_v2.pdf", "statement bytes")
	dup, reg, err := idx.IsDuplicate(renamed)
	if err != nil {
		t.Fatal(err)
	}
	if !dup {
		t.Fatal("renamed copy not detected as duplicate")
	}
	if reg.Filename != "statement_mar.pdf" {
		t.Errorf("duplicate reports %q, want the original's name", reg.Filename)
	}
	if reg.LoanFolder != "loans/hdfc-bank-a1" {
		t.Errorf("LoanFolder = %q", reg.LoanFolder)
	}

	// persistence: a fresh open sees the registration
	idx2, err := OpenHashIndex(indexPath)
	if err != nil {
		t.Fatal(err)
	}
	if idx2.Len() != 1 {
		t.Errorf("reloaded index has %d entries, want 1", idx2.Len())
	}

	// re-registering known bytes refreshes the entry, no error, no growth
	if err := idx2.Register(renamed, "loans/other"); err != nil {
		t.Fatal(err)
	}
	if idx2.Len() != 1 {
		t.Errorf("refresh grew the index to %d", idx2.Len())
	}
	_, reg, _ = idx2.IsDuplicate(original)
	if reg.Filename != "scan_final_v2.pdf" {
		t.Errorf("refresh did not update metadata: %q", reg.Filename)
	}
}

func TestOpenHashIndexCorrupt(t *testing.T) {
	dir := t.TempDir()
	indexPath := writeDoc(t, dir, ".duplicate_index.json", "{ this is not json")

	idx, err := OpenHashIndex(indexPath)
	if !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("err = %v, want ErrCorruptIndex", err)
	}
	if idx == nil || idx.Len() != 0 {
		t.Error("corrupt index should still yield a usable empty index")
	}

	// the empty index is fully operational
	doc := writeDoc(t, dir, "doc.pdf", "bytes")
	if err := idx.Register(doc, ""); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len = %d", idx.Len())
	}
}

func TestFindDuplicatesWithin(t *testing.T) {
	s := NewStore(t.TempDir())
	folder := seedLoan(t, s, "HDFC Bank", "A1", 100, StatusRunningPaidEMI)

	writeDoc(t, folder, "statements/jan.pdf", "january")
	writeDoc(t, folder, "statements/jan_copy.pdf", "january")
	writeDoc(t, folder, "ots/offer.pdf", "offer")
	writeDoc(t, folder, "closure_proof/offer_scan.pdf", "offer") // cross-category

	idx, err := OpenHashIndex(s.IndexPath())
	if err != nil {
		t.Fatal(err)
	}

	dups, err := idx.FindDuplicatesWithin(folder)
	if err != nil {
		t.Fatal(err)
	}
	if len(dups) != 2 {
		t.Fatalf("found %d duplicates, want 2: %+v", len(dups), dups)
	}
	for _, d := range dups {
		if d.File == d.DuplicateOf {
			t.Errorf("file reported as duplicate of itself: %+v", d)
		}
	}

	_, err = idx.FindDuplicatesWithin(filepath.Join(s.LoansDir(), "no-such"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing folder: err = %v, want ErrNotFound", err)
	}
}

func TestCleanupDuplicates(t *testing.T) {
	s := NewStore(t.TempDir())
	folder := seedLoan(t, s, "HDFC Bank", "A1", 100, StatusRunningPaidEMI)

	first := writeDoc(t, folder, "statements/jan.pdf", "january")
	second := writeDoc(t, folder, "statements/jan_copy.pdf", "january")

	idx, err := OpenHashIndex(s.IndexPath())
	if err != nil {
		t.Fatal(err)
	}

	// dry-run reports but removes nothing
	removed, err := idx.CleanupDuplicates(folder, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 1 {
		t.Fatalf("dry-run removed list = %v", removed)
	}
	if _, err := os.Stat(second); err != nil {
		t.Error("dry-run must not delete anything")
	}

	removed, err = idx.CleanupDuplicates(folder, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 1 {
		t.Fatalf("removed = %v", removed)
	}
	if _, err := os.Stat(second); !errors.Is(err, os.ErrNotExist) {
		t.Error("duplicate should be gone")
	}
	if _, err := os.Stat(first); err != nil {
		t.Error("first occurrence must survive cleanup")
	}
}
