package xerror

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

type ErrType int

const (
	Normal ErrType = iota
	// InvalidArgument marks caller bugs, e.g. detaching an observer that
	// was never attached. Not recoverable by the library, propagate it.
	InvalidArgument
)

func (e ErrType) String() string {
	switch e {
	case Normal:
		return "normal"
	case InvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

// this will add one stack msg in the error msg

// a wrapped error with error type
type XError struct {
	ErrType ErrType
	Err     error
}

func (e *XError) Error() string {
	return e.Err.Error()
}

func (e *XError) Unwrap() error {
	return e.Err
}

// New creates an XError without a stack, mostly for package sentinels
// checked with errors.Is.
func New(errType ErrType, message string) *XError {
	return &XError{
		ErrType: errType,
		Err:     stderrors.New(message),
	}
}

func Errorf(errType ErrType, format string, args ...interface{}) error {
	err := &XError{
		ErrType: errType,
		Err:     fmt.Errorf(format, args...),
	}
	return errors.Wrap(err, "")
}

func Wrap(err error, errType ErrType, message string) error {
	if err == nil {
		return nil
	}
	err = &XError{
		ErrType: errType,
		Err:     err,
	}
	return errors.Wrap(err, message)
}

func Wrapf(err error, errType ErrType, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	err = &XError{
		ErrType: errType,
		Err:     err,
	}
	return errors.Wrapf(err, format, args...)
}

// Category returns the ErrType of the outermost XError in err's chain.
func Category(err error) (ErrType, bool) {
	var xerr *XError
	if errors.As(err, &xerr) {
		return xerr.ErrType, true
	}
	return Normal, false
}
