package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrScriptNotFound    = errors.New("script not found")
	ErrInvalidScript     = errors.New("invalid script")
	ErrMissingCredential = errors.New("missing api credential")
	ErrProviderFailure   = errors.New("provider failure")
)
