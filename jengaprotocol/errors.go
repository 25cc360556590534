package jengaprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Jenga protocol.
var (
	// ErrTimeout indicates a dial or I/O deadline expired before the host replied.
	ErrTimeout = errors.New("command timed out")

	// ErrEmptyCommand indicates an attempt to send an empty command line.
	ErrEmptyCommand = errors.New("empty command")
)

// ParseError represents an error that occurred during command or response parsing.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The invalid value that caused the error
	Message string // Additional context
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidCommand indicates an unknown or malformed command.
	ErrKindInvalidCommand ParseErrorKind = iota
	// ErrKindInvalidLevel indicates a level that is not a non-negative integer.
	ErrKindInvalidLevel
	// ErrKindInvalidColor indicates a piece color outside {y, g, b}.
	ErrKindInvalidColor
	// ErrKindInvalidValue indicates an invalid numeric value.
	ErrKindInvalidValue
	// ErrKindMissingArgument indicates a required argument was not provided.
	ErrKindMissingArgument
	// ErrKindUnexpectedResponse indicates a reply that could not be interpreted.
	ErrKindUnexpectedResponse
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidCommand:
		return fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindInvalidLevel:
		return fmt.Sprintf("invalid level '%s'", e.Value)
	case ErrKindInvalidColor:
		return fmt.Sprintf("invalid color '%s' (expected y, g or b)", e.Value)
	case ErrKindInvalidValue:
		return fmt.Sprintf("invalid value '%s'", e.Value)
	case ErrKindMissingArgument:
		return e.Message
	case ErrKindUnexpectedResponse:
		return fmt.Sprintf("unexpected response: %q", e.Value)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd}
}

func newInvalidLevelError(level string) error {
	return &ParseError{Kind: ErrKindInvalidLevel, Value: level}
}

func newInvalidColorError(color string) error {
	return &ParseError{Kind: ErrKindInvalidColor, Value: color}
}

func newInvalidValueError(val string) error {
	return &ParseError{Kind: ErrKindInvalidValue, Value: val}
}

func newMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Message: msg}
}

func newUnexpectedResponseError(resp string) error {
	return &ParseError{Kind: ErrKindUnexpectedResponse, Value: resp}
}

// ConnectionError represents a failure to reach the host or to exchange
// bytes with it.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}

// ProtocolError indicates reply bytes that could not be decoded as text.
type ProtocolError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// NewProtocolError creates a new protocol error.
func NewProtocolError(message string, cause error) error {
	return &ProtocolError{Message: message, Cause: cause}
}

// ArtifactStateError indicates the screenshot directory did not hold exactly
// one image. Found lists the image files that were present.
type ArtifactStateError struct {
	Dir   string
	Found []string
	Cause error
}

// Error implements the error interface.
func (e *ArtifactStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("expected one screenshot in %s: %v", e.Dir, e.Cause)
	}
	return fmt.Sprintf("expected one screenshot in %s, found %d", e.Dir, len(e.Found))
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ArtifactStateError) Unwrap() error {
	return e.Cause
}
