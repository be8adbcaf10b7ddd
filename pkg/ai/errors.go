package ai

import (
	"errors"
	"fmt"
)

// Error code constants shared by every AI task orchestrator. The whole AI
// layer reports through this one tagged set so callers never branch on
// transport internals.
const (
	CodeConfig   = "CONFIG_ERROR"
	CodeProvider = "PROVIDER_ERROR"
	CodeParse    = "PARSE_ERROR"
)

var (
	// ErrMissingAPIKey API key is required at construction time.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrEmptyContent the provider answered 2xx but the completion text was empty.
	ErrEmptyContent = errors.New("completion content is empty")
)

// Error is the uniform error kind for the AI layer. Task is the orchestrator
// that produced it (feedback, translation, title), Message is the user-facing
// Japanese text, Cause carries the transport-level detail which is logged but
// never surfaced to end users.
type Error struct {
	Code    string
	Task    string
	Message string
	Status  int
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%s] %s (status %d)", e.Code, e.Message, e.Status)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a provider error carrying the HTTP status.
func NewProviderError(task, message string, status int, cause error) *Error {
	return &Error{
		Code:    CodeProvider,
		Task:    task,
		Message: message,
		Status:  status,
		Cause:   cause,
	}
}

// NewParseError creates a parse error for malformed or content-less bodies.
func NewParseError(task, message string, cause error) *Error {
	return &Error{
		Code:    CodeParse,
		Task:    task,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(task, message string, cause error) *Error {
	return &Error{
		Code:    CodeConfig,
		Task:    task,
		Message: message,
		Cause:   cause,
	}
}

// WrapError normalizes any error into an *Error for the given task, keeping
// the code of an already-typed error and re-tagging only the task and the
// user-facing message.
func WrapError(err error, task, message string) *Error {
	if err == nil {
		return nil
	}

	var aiErr *Error
	if errors.As(err, &aiErr) {
		return &Error{
			Code:    aiErr.Code,
			Task:    task,
			Message: message,
			Status:  aiErr.Status,
			Cause:   aiErr,
		}
	}

	return &Error{
		Code:    CodeProvider,
		Task:    task,
		Message: message,
		Cause:   err,
	}
}

// IsProviderError reports whether err is an AI error with the provider code.
func IsProviderError(err error) bool { return hasCode(err, CodeProvider) }

// IsParseError reports whether err is an AI error with the parse code.
func IsParseError(err error) bool { return hasCode(err, CodeParse) }

// IsConfigError reports whether err is an AI error with the config code.
func IsConfigError(err error) bool { return hasCode(err, CodeConfig) }

func hasCode(err error, code string) bool {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Code == code
	}
	return false
}
