package llm

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind int

const (
	// KindConfig means the generation backend is not configured. It is not
	// retried.
	KindConfig Kind = iota + 1
	// KindTransient covers network and API failures of a single call.
	KindTransient
	// KindMalformed means the call succeeded but returned no usable JSON.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransient:
		return "transient"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Client entry point.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm " + e.Kind.String() + " error"
	}
	return fmt.Sprintf("llm %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ConfigError wraps err as a configuration failure. Model implementations
// use it so the client does not classify the failure as transient.
func ConfigError(err error) error {
	return &Error{Kind: KindConfig, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindTransient, Err: err}
}
