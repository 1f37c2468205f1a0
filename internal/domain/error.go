package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNoSession          = errors.New("no active conversation session")
	ErrInvalidMedia       = errors.New("unsupported media attachment")
	ErrBroadcastBusy      = errors.New("a broadcast is already running")
	ErrUploadFailed       = errors.New("media upload failed")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
