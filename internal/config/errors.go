package config

import (
	"errors"
)

// Sentinel errors for config loading and validation.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
