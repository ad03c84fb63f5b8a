package filetree

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Use errors.Is to classify an error returned by the Service;
// anything that matches neither is an internal failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// Error is a classified service error whose message is safe to show to
// API callers.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func notFound(id int64) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf("file %d not found", id)}
}
