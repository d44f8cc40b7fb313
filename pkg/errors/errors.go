// Package errors provides custom error types for the tallysheet system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library equivalents so callers do
// not need a second errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the tallysheet system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrRowSkipped indicates that a raw line could not be parsed into a
	// booth row and was dropped
	ErrRowSkipped = errors.New("row skipped")

	// ErrQuorum indicates that a row carried too few numeric tokens to be
	// usable
	ErrQuorum = errors.New("below token quorum")

	// ErrNoMapping indicates that every mapping strategy was exhausted
	// without producing a validated column mapping
	ErrNoMapping = errors.New("no valid column mapping")

	// ErrReconcileImpossible indicates that booth totals cannot be made to
	// match official totals without driving a booth value negative
	ErrReconcileImpossible = errors.New("reconciliation impossible")

	// ErrValidationFailed indicates that a validation report contains hard
	// failures
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// RowError represents a raw line that could not become a booth row
type RowError struct {
	Line   string
	Reason string
}

// Error implements the error interface
func (e *RowError) Error() string {
	line := e.Line
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return fmt.Sprintf("row skipped (%s): %q", e.Reason, line)
}

// Is implements errors.Is support
func (e *RowError) Is(target error) bool {
	if target == ErrQuorum {
		return e.Reason == "below quorum"
	}
	return target == ErrRowSkipped
}

// NewRowError creates a new RowError
func NewRowError(line, reason string) *RowError {
	return &RowError{Line: line, Reason: reason}
}

// MappingError represents exhaustion of all column-mapping strategies for a
// contest. It carries the best-attempted strategy and the issues its
// validation produced, for human review.
type MappingError struct {
	Contest      string
	BestStrategy string
	Issues       []string
}

// Error implements the error interface
func (e *MappingError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("no mapping strategy validated for contest %s (best attempt %q): %s",
			e.Contest, e.BestStrategy, strings.Join(e.Issues, "; "))
	}
	return fmt.Sprintf("no mapping strategy validated for contest %s", e.Contest)
}

// Is implements errors.Is support
func (e *MappingError) Is(target error) bool {
	return target == ErrNoMapping
}

// NewMappingError creates a new MappingError
func NewMappingError(contest, bestStrategy string, issues []string) *MappingError {
	return &MappingError{Contest: contest, BestStrategy: bestStrategy, Issues: issues}
}

// ReconcileError represents a reconciliation that cannot reach the official
// total exactly, distinct from a mapping failure: column identity was
// plausibly correct but magnitudes are not.
type ReconcileError struct {
	Contest   string
	Candidate string
	Target    int
	Achieved  int
}

// Error implements the error interface
func (e *ReconcileError) Error() string {
	return fmt.Sprintf("cannot reconcile candidate %q in contest %s: target %d, achievable %d",
		e.Candidate, e.Contest, e.Target, e.Achieved)
}

// Is implements errors.Is support
func (e *ReconcileError) Is(target error) bool {
	return target == ErrReconcileImpossible
}

// NewReconcileError creates a new ReconcileError
func NewReconcileError(contest, candidate string, target, achieved int) *ReconcileError {
	return &ReconcileError{Contest: contest, Candidate: candidate, Target: target, Achieved: achieved}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "text", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRowSkipped checks if an error is a row-level skip
func IsRowSkipped(err error) bool {
	return errors.Is(err, ErrRowSkipped)
}

// IsMappingFailure checks if an error indicates mapping exhaustion
func IsMappingFailure(err error) bool {
	return errors.Is(err, ErrNoMapping)
}

// IsReconcileImpossible checks if an error indicates an unreachable official
// total
func IsReconcileImpossible(err error) bool {
	return errors.Is(err, ErrReconcileImpossible)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
