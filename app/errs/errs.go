package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the orchestrator can decide whether a unit
// failure is contained or aborts the whole batch.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindParse
	KindProvider
	KindConfigurationAbsent
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindProvider:
		return "provider"
	case KindConfigurationAbsent:
		return "configuration_absent"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Transport(op string, err error) *Error {
	return New(KindTransport, op, err)
}

func Parse(op string, err error) *Error {
	return New(KindParse, op, err)
}

func Provider(op string, err error) *Error {
	return New(KindProvider, op, err)
}

func Fatal(op string, err error) *Error {
	return New(KindFatal, op, err)
}

// ErrNotConfigured marks a collaborator that is skipped because its
// credential is absent. It is not a failure state.
var ErrNotConfigured = New(KindConfigurationAbsent, "configuration", errors.New("not configured"))

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsFatal(err error) bool {
	return KindOf(err) == KindFatal
}
