package errors

import (
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

var (
	// ErrTopicNotFound is returned when topic is not found
	ErrTopicNotFound = pkgerrors.NewNotFoundError("topic not found")

	// ErrTopicAlreadyExists is returned when a topic with the same slug exists
	ErrTopicAlreadyExists = pkgerrors.NewConflictError("topic with this slug already exists")

	// ErrArticleAlreadyExists is returned when an article with the same url exists
	ErrArticleAlreadyExists = pkgerrors.NewConflictError("article with this url already exists")

	// ErrEmptyUpdate is returned when an update names no fields
	ErrEmptyUpdate = pkgerrors.NewValidationError("invalid payload", "body: at least one field is required")

	// ErrUnknownCategory is returned when an ingested topic has no valid category
	ErrUnknownCategory = pkgerrors.NewValidationError("invalid payload", "category: unknown category")
)
