package registry

import "errors"

var (
	ErrInvalidRegistration = errors.New("invalid engine registration")
	ErrDuplicateLanguage   = errors.New("language already registered")
)
