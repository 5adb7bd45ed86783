package seq

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the errors produced while opening and decoding sequence
// files.
type Kind int

const (
	// Other is a sentinel; it is never used in an Error produced by this
	// module.
	Other Kind = iota
	// NotFound means the input path does not exist or cannot be opened.
	NotFound
	// UnsupportedFormat means no decoder matches the path (or the format
	// override).
	UnsupportedFormat
	// MalformedRecord means a line failed structural decoding.
	MalformedRecord
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case UnsupportedFormat:
		return "unsupported format"
	case MalformedRecord:
		return "malformed record"
	default:
		return "other"
	}
}

// Error is the error type for NotFound, UnsupportedFormat and
// MalformedRecord failures. Callers should switch on Kind rather than parse
// the message.
type Error struct {
	Kind Kind
	// Path is the path the error relates to. For UnsupportedFormat it is the
	// detection path (the path with any compression suffix removed).
	Path string
	// Line is the raw offending line. Set only for MalformedRecord.
	Line string
	// Msg is an optional description appended to the message.
	Msg string
	// Err is the underlying cause, if any. MalformedRecord errors from the
	// SAM decoder never carry one.
	Err error
}

func (e *Error) Error() string {
	var s string
	switch e.Kind {
	case NotFound:
		s = fmt.Sprintf("open %s", e.Path)
	case UnsupportedFormat:
		s = fmt.Sprintf("unrecognized file extension: %s", e.Path)
	case MalformedRecord:
		s = fmt.Sprintf("%s: failed to parse line '%s'", e.Path, e.Line)
	default:
		s = e.Path
	}
	if e.Msg != "" {
		s += ", " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Malformed creates a MalformedRecord error for the given raw line.
func Malformed(path, line string) error {
	return &Error{Kind: MalformedRecord, Path: path, Line: line}
}

// AsError extracts the *Error from err, looking through errors.Wrap. It
// returns nil if there is none.
func AsError(err error) *Error {
	e, _ := errors.Cause(err).(*Error)
	return e
}

// KindOf returns the Kind of err, or Other if err does not carry an *Error.
func KindOf(err error) Kind {
	if e := AsError(err); e != nil {
		return e.Kind
	}
	return Other
}

// IsKind returns true if err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind && kind != Other
}
