package spa

import (
	"errors"
	"fmt"
)

// Kind classifies bridge failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindMissingTarget: the working directory or a required file is absent.
	KindMissingTarget
	// KindMalformedRecord: a file or row does not match its schema.
	KindMalformedRecord
	// KindUnknownReference: a row names a module, group or block code that
	// is not known.
	KindUnknownReference
	// KindIOFailure: a file could not be opened, written or renamed.
	KindIOFailure
	// KindInvalidArgument: the caller passed an unusable argument.
	KindInvalidArgument
	// KindConflict: the two result files disagree.
	KindConflict
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindMissingTarget:    "missing_target",
	KindMalformedRecord:  "malformed_record",
	KindUnknownReference: "unknown_reference",
	KindIOFailure:        "io_failure",
	KindInvalidArgument:  "invalid_argument",
	KindConflict:         "conflict",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrMissingTarget    = errors.New("missing target")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnknownReference = errors.New("unknown reference")
	ErrIOFailure        = errors.New("io failure")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflicting results")
)

var sentinels = map[Kind]error{
	KindMissingTarget:    ErrMissingTarget,
	KindMalformedRecord:  ErrMalformedRecord,
	KindUnknownReference: ErrUnknownReference,
	KindIOFailure:        ErrIOFailure,
	KindInvalidArgument:  ErrInvalidArgument,
	KindConflict:         ErrConflict,
}

// Error is returned by all bridge operations. File and Line are set when
// the failure can be attributed to a position in an exchange file.
type Error struct {
	Kind Kind
	Op   string
	File string
	Line int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.File != "" {
		msg += ": " + e.File
		if e.Line > 0 {
			msg += fmt.Sprintf(":%d", e.Line)
		}
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel belonging to e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the Kind of err or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
