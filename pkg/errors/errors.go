// Package errors holds the typed errors returned around the reconciliation
// engine. Reconcile itself never fails; loading and saving collections,
// parsing definition or gap files, configuration and consistency checks do.
//
// Callers branch with the Is helpers rather than on messages:
//
//	if errors.IsNotFound(err) { ... }      // missing file, event or country
//	if errors.IsValidationError(err) { ... } // bad input or failed check
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentstation/eventmap/pkg/constants"
)

// Re-exported from the standard library so callers import one package.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

var (
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is matched by ValidationError and ConsistencyError.
	ErrInvalidInput = errors.New("invalid input")
)

// IsNotFound reports whether err is, or wraps, a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is, or wraps, invalid input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// NotFoundError reports a missing event, country or file.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError returns a NotFoundError for resource id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports a bad field in user input, e.g. an add flag.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// WrapValidation turns err into a ValidationError on field. Nil stays nil.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// ConsistencyError lists the error-severity issues of a failed check.
type ConsistencyError struct {
	Issues []string
}

// NewConsistencyError wraps issues.
func NewConsistencyError(issues []string) *ConsistencyError {
	return &ConsistencyError{Issues: issues}
}

// Error shows at most constants.MaxIssuesShown issues.
func (e *ConsistencyError) Error() string {
	n := len(e.Issues)
	switch n {
	case 0:
		return "collection is inconsistent"
	case 1:
		return "collection is inconsistent: " + e.Issues[0]
	}
	shown := min(n, constants.MaxIssuesShown)
	var b strings.Builder
	fmt.Fprintf(&b, "collection is inconsistent (%d issues): %s", n, strings.Join(e.Issues[:shown], "; "))
	if n > shown {
		fmt.Fprintf(&b, "; ... and %d more", n-shown)
	}
	return b.String()
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigError reports an unusable setting, such as an empty events path.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseError reports malformed JSON collections, YAML definitions or CSV
// gap files.
type ParseError struct {
	Format  string
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// NewParseError returns a ParseError without a position.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// WrapParse turns err into a ParseError. Nil stays nil.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a failed read, write, rename or backup of Path.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

// WrapIO turns err into an IOError. Nil stays nil.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError reports a failed load, save or import of a collection or
// definitions file.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Message   string
	Err       error
}

// WrapResource turns err into a ResourceError. Nil stays nil.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: err.Error(), Err: err}
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
	}
	return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
}

func (e *ResourceError) Unwrap() error { return e.Err }
