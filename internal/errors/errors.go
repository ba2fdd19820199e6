package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MalformedField indicates a field value that no coercion can turn into a value
	MalformedField ErrorCode = "MALFORMED_FIELD"
	// InvalidDocument indicates the input is not a JSON array of objects
	InvalidDocument ErrorCode = "INVALID_DOCUMENT"
	// IOFailure indicates the input could not be read
	IOFailure ErrorCode = "IO_FAILURE"
	// UnsupportedFormat indicates an unknown output format was requested
	UnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// InvalidParameter indicates a bad request or command-line parameter
	InvalidParameter ErrorCode = "INVALID_PARAMETER"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditInput suggests correcting the input data
	EditInput FixActionType = "edit-input"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// CarError is the error type returned by every carnorm package.
// Field, Reason and Record are only set for MalformedField (and Record for
// InvalidDocument when a specific array element is at fault).
type CarError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Field          string      `json:"field,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	Record         *int        `json:"record,omitempty"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewCarError creates a new CarError with the default fixes for its code
func NewCarError(code ErrorCode, message string, cause error) *CarError {
	return &CarError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// NewMalformedField creates a MalformedField error for a single field
func NewMalformedField(field, reason string, cause error) *CarError {
	e := NewCarError(MalformedField, fmt.Sprintf("malformed field %q: %s", field, reason), cause)
	e.Field = field
	e.Reason = reason
	return e
}

// NewInvalidDocument creates an InvalidDocument error
func NewInvalidDocument(message string, cause error) *CarError {
	return NewCarError(InvalidDocument, message, cause)
}

// NewIOFailure creates an IOFailure error for the given path
func NewIOFailure(path string, cause error) *CarError {
	return NewCarError(IOFailure, fmt.Sprintf("cannot read %s", path), cause).WithDetails(map[string]string{"path": path})
}

// Error implements the error interface
func (e *CarError) Error() string {
	msg := e.Message
	if e.Record != nil {
		msg = fmt.Sprintf("record %d: %s", *e.Record, msg)
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *CarError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CarError) WithDetails(details interface{}) *CarError {
	e.Details = details
	return e
}

// NewInvalidParameter creates an InvalidParameter error naming the parameter
func NewInvalidParameter(name, message string) *CarError {
	return NewCarError(InvalidParameter, fmt.Sprintf("invalid parameter %q: %s", name, message), nil).
		WithDetails(map[string]string{"parameter": name})
}

// AtRecord returns a copy of the error annotated with the zero-based
// position of the offending record in the input array.
func (e *CarError) AtRecord(index int) *CarError {
	c := *e
	c.Record = &index
	return &c
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	MalformedField: {
		{
			Type:        EditInput,
			Description: "Dates must be YYYY-MM-DD; acceleration strings must contain at least one digit",
		},
	},
	InvalidDocument: {
		{
			Type:        EditInput,
			Description: "Input must be a JSON array of objects",
		},
	},
	IOFailure: {
		{
			Type:        RunCommand,
			Command:     "ls -l ${path}",
			Safe:        true,
			Description: "Check that the input file exists and is readable",
		},
	},
	UnsupportedFormat: {
		{
			Type:        RunCommand,
			Command:     "carnorm normalize --help",
			Safe:        true,
			Description: "List supported output formats",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
