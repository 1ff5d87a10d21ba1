// Package simerr holds the two error classes the engine reports: bad input,
// rejected before a match starts, and engine invariant violations, which abort
// the match that detected them.
package simerr

import (
	"errors"
	"fmt"
)

var (
	ErrConfig    = errors.New("configuration error")
	ErrInvariant = errors.New("invariant violation")
)

type ConfigError struct {
	Code   string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

func Config(code, field, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Field: field, Reason: fmt.Sprintf(format, args...)}
}

type InvariantError struct {
	Code   string
	Tick   int
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s at tick %d: %s", e.Code, e.Tick, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

func Invariant(code string, tick int, format string, args ...any) *InvariantError {
	return &InvariantError{Code: code, Tick: tick, Detail: fmt.Sprintf(format, args...)}
}

// IsConfig reports whether err is (or wraps) a configuration error.
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }

// IsInvariant reports whether err is (or wraps) an invariant violation.
func IsInvariant(err error) bool { return errors.Is(err, ErrInvariant) }
