package config

import (
	"io"
	"time"
)

// Config is the read-only view of the application configuration.
//
// Missing keys yield the zero value of the requested type unless a default was
// registered when the implementation was built.
type Config interface {
	io.Closer

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetInt returns the value for key as an int.
	GetInt(key string) int

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetFloat64 returns the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond returns the value for key, an integer number of seconds, as a duration.
	GetSecond(key string) time.Duration

	// GetArray returns the value for key split on commas, with blank elements removed.
	// Configuration value is stored with format <element1>,<element2>,...
	GetArray(key string) []string
}
