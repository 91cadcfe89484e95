package graph

import (
	"errors"
	"fmt"
)

// InputError marks invalid caller input: a negative depth bound or an
// unknown root entity. It is fatal to the requested operation and is never
// accompanied by a partial result.
type InputError struct {
	msg string
}

func (e *InputError) Error() string {
	return e.msg
}

func newInputErrorf(format string, args ...any) *InputError {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
