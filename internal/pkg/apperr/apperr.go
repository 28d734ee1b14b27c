// Package apperr holds the user-fixable errors the HTTP layer maps to 4xx.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindUnprocessable
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so wrapped and re-created errors compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// With returns a copy of e carrying a more specific message.
func (e *Error) With(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrCourseNotFound    = &Error{Kind: KindNotFound, Code: "course_not_found", Message: "course not found"}
	ErrDeviationNotFound = &Error{Kind: KindNotFound, Code: "deviation_not_found", Message: "deviation not found"}
	ErrInvalidWeek       = &Error{Kind: KindInvalid, Code: "invalid_week", Message: "week must be between 1 and 16"}
	ErrEmptyUpload       = &Error{Kind: KindInvalid, Code: "empty_upload", Message: "uploaded file is empty"}
	ErrInvalidInput      = &Error{Kind: KindInvalid, Code: "invalid_input", Message: "invalid input"}
	ErrUnreadableZip     = &Error{Kind: KindUnprocessable, Code: "unreadable_zip", Message: "zip archive could not be read"}
	ErrNoTextExtracted   = &Error{Kind: KindUnprocessable, Code: "no_text_extracted", Message: "no text could be extracted from the upload"}
	ErrNoPlanText        = &Error{Kind: KindUnprocessable, Code: "no_plan_text", Message: "no planned topics for this week"}
	ErrNoGuideText       = &Error{Kind: KindUnprocessable, Code: "no_guide_text", Message: "course has no guide text"}
)

// KindOf reports the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
