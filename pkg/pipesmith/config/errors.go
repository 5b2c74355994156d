package config

import "github.com/pkg/errors"

var (
	ErrEmptyName         = errors.New("implementation name must be set")
	ErrAlreadyRegistered = errors.New("implementation already registered")
	ErrUnsupportedFormat = errors.New("unsupported grid file format")
	ErrInvalidTags       = errors.New("tags must be a mapping")
	ErrUnknownField      = errors.New("unknown field")
)
