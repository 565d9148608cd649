package config

import "github.com/deeporigin/deeporigin/pkg/errors"

var (
	// ErrInvalid indicates that some configuration value has the wrong type
	ErrInvalid = errors.New("The configuration is not valid")

	// ErrRead indicates that a configuration file could not be read
	ErrRead = errors.New("could not read configuration file")

	// ErrMissing indicates that a required configuration value is not set
	ErrMissing = errors.New("missing configuration")
)

// ErrUnknownKey indicates an attempt to set a key that is not part of the configuration
var ErrUnknownKey = errors.New("unknown configuration key")
