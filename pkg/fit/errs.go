package fit

import "errors"

var (
	// ErrDegenerateDataset indicates a dataset that is empty or whose measured
	// powers are all zero, so the error normalization is undefined.
	ErrDegenerateDataset = errors.New("fit: degenerate dataset")

	// ErrDuplicateSpeed indicates two observations with the same speed.
	ErrDuplicateSpeed = errors.New("fit: duplicate speed")

	// ErrNoCandidates indicates that a search finished without scoring any
	// finite candidate.
	ErrNoCandidates = errors.New("fit: no candidates evaluated")

	// ErrNoProfiles indicates a joint fit called with no profiles.
	ErrNoProfiles = errors.New("fit: no profiles")
)
