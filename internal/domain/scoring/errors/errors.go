package errors

import (
	"errors"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

var (
	// ErrNoResults is returned when the classifier scored none of the articles sent
	ErrNoResults = errors.New("classifier returned no results for the batch")

	// ErrInvalidScore is returned when a classifier result is out of range
	ErrInvalidScore = errors.New("classifier returned an out of range score")

	// ErrTopicGone is returned when a candidate topic was deleted during the run
	ErrTopicGone = pkgerrors.NewNotFoundError("topic deleted during batch run")

	// ErrInvalidWeights is returned when policy weights are negative or sum to zero
	ErrInvalidWeights = errors.New("aggregation weights must be non-negative and not all zero")
)
