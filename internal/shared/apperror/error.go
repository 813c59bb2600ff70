package apperror

import "fmt"

// AppError is the canonical application error. Services return sentinel
// *AppError values (or wrap infrastructure errors into one) and handlers
// translate them to the HTTP envelope via ToHTTP.
type AppError struct {
	Code       string // machine-readable code (e.g. OVERLAPPING_LEAVE)
	Message    string // operator/user facing message
	HTTPStatus int
	Err        error // wrapped cause, optional
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches code/message/status to an existing error. Returns nil for
// a nil cause so call sites can pass through.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
