package pipeline

import "fmt"

// Kind classifies an AppError without tying callers to string matching.
type Kind int

const (
	// KindIO is any underlying filesystem failure.
	KindIO Kind = iota
	// KindFormat is a playlist missing its header or a malformed line.
	KindFormat
	// KindWalk is a walker-reported failure for a particular directory.
	KindWalk
	// KindTransport is a verdict subsystem that is unreachable or
	// unresponsive.
	KindTransport
	// KindTimeout is a verdict subsystem that did not report a valid
	// state within its startup window.
	KindTimeout
	// KindMismatch is a verdict controller reporting a different filename
	// than the one requested.
	KindMismatch
)

// AppError is a structured error carrying an exit code and a Kind, so
// main.go can both pick a process exit code and so callers partway through
// the pipeline can decide whether an error is fatal or merely skips one
// entry/directory, per the propagation policy.
type AppError struct {
	Code    ExitCode
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewIOError wraps a filesystem failure as a fatal AppError.
func NewIOError(msg string, err error) *AppError {
	return &AppError{Code: ExitError, Kind: KindIO, Message: msg, Err: err}
}

// NewFormatError wraps a playlist-format failure as a fatal AppError.
func NewFormatError(msg string, err error) *AppError {
	return &AppError{Code: ExitError, Kind: KindFormat, Message: msg, Err: err}
}

// NewWalkError wraps a failure of the directory walk as a whole (for
// example a root that cannot be resolved or does not exist) as a fatal
// AppError. Unreadable subdirectories never reach it: the walker logs and
// skips them itself.
func NewWalkError(msg string, err error) *AppError {
	return &AppError{Code: ExitError, Kind: KindWalk, Message: msg, Err: err}
}

// NewTransportError wraps a verdict-subsystem connectivity failure.
// Non-fatal: the caller treats the Entry as Skipped.
func NewTransportError(msg string, err error) *AppError {
	return &AppError{Code: ExitError, Kind: KindTransport, Message: msg, Err: err}
}

// NewTimeoutError wraps a verdict-subsystem startup timeout. Non-fatal: the
// caller treats the Entry as Skipped.
func NewTimeoutError(msg string) *AppError {
	return &AppError{Code: ExitError, Kind: KindTimeout, Message: msg}
}

// NewMismatchError wraps a verdict-controller filename mismatch. Non-fatal:
// the caller treats the Entry as Skipped.
func NewMismatchError(expected, got string) *AppError {
	return &AppError{
		Code:    ExitError,
		Kind:    KindMismatch,
		Message: fmt.Sprintf("verdict controller reported filename %q, expected %q", got, expected),
	}
}
