package db

import "errors"

// Domain-level database error sentinels.
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Link edge errors
	ErrLinkNotFound  = errors.New("link not found")
	ErrDuplicateLink = errors.New("a link with this account already exists or is pending")
	ErrSelfLink      = errors.New("you cannot link your own account")
	ErrNotPending    = errors.New("link request is not pending")
	ErrNotRecipient  = errors.New("only the recipient of a link request can respond to it")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotVisible         = errors.New("submission is not visible to this account")
)
