package settings

import "errors"

var (
	// ErrInvalidValue indicates a setting value that cannot be parsed.
	ErrInvalidValue = errors.New("settings: invalid value")

	// ErrInvalidFile indicates a settings file that is not a YAML mapping.
	ErrInvalidFile = errors.New("settings: invalid settings file")
)
