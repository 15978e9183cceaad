package model

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	// ErrPostDeleted is returned when a write targets a row that is already soft-deleted.
	ErrPostDeleted = errors.New("post is deleted")
)
