package exe

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError reports a header field that does not hold a usable value.
// Offset is absolute within the buffer that was being read.
type FormatError struct {
	Field  string
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s at 0x%x: %s", e.Field, e.Offset, e.Reason)
}

func IsFormatError(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}

func formatErrorf(f Field, offset int, format string, args ...interface{}) error {
	return &FormatError{
		Field:  f.Name,
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
	}
}
