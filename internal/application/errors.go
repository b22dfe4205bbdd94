package application

import (
	"errors"

	"github.com/oksasatya/go-live-inventory/config"
)

var (
	// ErrConfigMissing aliases the config sentinel so callers need one import.
	ErrConfigMissing     = config.ErrConfigMissing
	ErrNoSession         = errors.New("no active session")
	ErrSessionAlreadySet = errors.New("session already set")
	ErrMissingID         = errors.New("item id is required")
	ErrItemNotFound      = errors.New("item not found")
)

var (
	errNoAuthBackend = errors.New("auth backend not configured")
	errEmptyUserID   = errors.New("auth backend returned an empty user id")
)
