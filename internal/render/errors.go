package render

import (
	"errors"
	"fmt"
)

// Failure reasons. Test for them with errors.Is.
var (
	ErrFontLoad = errors.New("font load failed")
	ErrStyle    = errors.New("style lookup failed")
	ErrLayout   = errors.New("layout failed")
	ErrEncode   = errors.New("encoding failed")
	ErrPackage  = errors.New("packaging failed")
)

// Error reports a render failure for one output format.
type Error struct {
	Format string // "pdf" or "docx"
	Reason error  // one of the Err* sentinels
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("render %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("render %s: %s: %v", e.Format, e.Reason, e.Err)
}

// Unwrap exposes both the reason and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// Reason returns a short machine-readable name for err's failure reason, or
// "unknown" if err is not a render failure.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrFontLoad):
		return "font_load"
	case errors.Is(err, ErrStyle):
		return "style"
	case errors.Is(err, ErrLayout):
		return "layout"
	case errors.Is(err, ErrEncode):
		return "encode"
	case errors.Is(err, ErrPackage):
		return "package"
	}
	return "unknown"
}

func failure(format string, reason, err error) error {
	return &Error{Format: format, Reason: reason, Err: err}
}
