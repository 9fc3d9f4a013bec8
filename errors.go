package loanvault

import "errors"

// Sentinel errors for the storage core. Callers match them with errors.Is;
// batch operations report them per item instead of aborting the run.
var (
	// ErrNotFound reports that a referenced loan folder or document path
	// does not exist on disk.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyArchived reports that an archive destination already exists.
	// The source folder is left untouched.
	ErrAlreadyArchived = errors.New("already archived")

	// ErrCorruptIndex reports that the duplicate index file exists but could
	// not be parsed. The index is then treated as empty.
	ErrCorruptIndex = errors.New("corrupt duplicate index")
)
