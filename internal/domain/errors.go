package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("missing account credentials")
	ErrInvalidAccounts    = errors.New("invalid account configuration")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrInvalidKey         = errors.New("invalid cache key")
	ErrRemote             = errors.New("remote index service error")
	ErrSecretNotFound     = errors.New("secret not found")
)
