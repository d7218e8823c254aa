package cache

import "errors"

var (
	// ErrKeyRequired is returned when an operation is given an empty key.
	// Validation happens before any tier is touched.
	ErrKeyRequired = errors.New("cache: key is required")

	// ErrValueRequired is returned by Set/Once when an Item carries neither
	// a Value nor a Do function.
	ErrValueRequired = errors.New("cache: value is required")

	// ErrDefaultInitialized is returned by SetDefault after the process-wide
	// default cache has already been initialized.
	ErrDefaultInitialized = errors.New("cache: default cache already initialized")
)
