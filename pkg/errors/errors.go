package errors

import (
	"fmt"
)

// ParseError represents a YAML catalog parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures catalog validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InstallError represents a failed install method invocation against the
// package back-end. Method names the strategy that failed ("apt", "release",
// ...) so fallback decisions and reports can cite it.
type InstallError struct {
	Component string
	Method    string
	Err       error
}

// NewInstallError constructs an InstallError.
func NewInstallError(component, method string, err error) error {
	return &InstallError{Component: component, Method: method, Err: err}
}

func (e *InstallError) Error() string {
	if e == nil {
		return ""
	}
	if e.Method != "" {
		return fmt.Sprintf("install error: %s via %s: %v", e.Component, e.Method, e.Err)
	}
	return fmt.Sprintf("install error: %s: %v", e.Component, e.Err)
}

// Unwrap exposes the root error.
func (e *InstallError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// VerifyError reports a post-install verification failure: the back-end
// claimed success but the component is still undetectable. Kept separate from
// InstallError because it indicates a false positive from the back-end, not an
// honest failure.
type VerifyError struct {
	Component string
}

// NewVerifyError constructs a VerifyError.
func NewVerifyError(component string) error {
	return &VerifyError{Component: component}
}

func (e *VerifyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("post-install verification failed: %s reported success but is not detectable", e.Component)
}

// EnvError represents an unrecoverable environmental failure (no privileges,
// no network, unsupported platform). It aborts the run before any step
// executes.
type EnvError struct {
	Reason string
	Err    error
}

// NewEnvError constructs an EnvError.
func NewEnvError(reason string, err error) error {
	return &EnvError{Reason: reason, Err: err}
}

func (e *EnvError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("environment error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("environment error: %s", e.Reason)
}

// Unwrap exposes the underlying error.
func (e *EnvError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
