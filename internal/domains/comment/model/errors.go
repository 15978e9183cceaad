package model

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentDeleted  = errors.New("comment is deleted")
	// ErrPostUnavailable is returned by Create when the post was deleted
	// between the service check and the insert.
	ErrPostUnavailable = errors.New("post is deleted or missing")
)
