package domain

import "errors"

var (
	// ErrRequirementNotFound signals a missing job requirement.
	ErrRequirementNotFound = errors.New("requirement not found")
	// ErrCandidateNotFound signals a missing candidate.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrMatchNotFound signals a missing match score row.
	ErrMatchNotFound = errors.New("match not found")
	// ErrInvalidWeights signals a malformed weight vector.
	ErrInvalidWeights = errors.New("invalid weight vector")
	// ErrInvalidScore signals a score outside [0,1].
	ErrInvalidScore = errors.New("score out of range")
	// ErrStoreUnavailable signals that the persistence layer is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
