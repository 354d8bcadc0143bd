package errors

import (
	stderrors "errors"
	"fmt"
)

// XError 是结构化错误：稳定的 Code + 面向用户的 Message。
type XError struct {
	Code    Code           `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	cause   error
}

func (e *XError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
}

func (e *XError) Unwrap() error { return e.cause }

// Describe returns the line shown to the user: the message, followed by
// the cause when there is one.
func (e *XError) Describe() string {
	if e == nil {
		return ""
	}
	if e.cause == nil || e.cause.Error() == e.Message {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func New(code Code, message string, details map[string]any) *XError {
	return &XError{Code: code, Message: message, Details: details}
}

func Newf(code Code, format string, args ...any) *XError {
	return &XError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, details map[string]any, cause error) *XError {
	return &XError{Code: code, Message: message, Details: details, cause: cause}
}

func As(err error) (*XError, bool) {
	var xe *XError
	if stderrors.As(err, &xe) {
		return xe, true
	}
	return nil, false
}

func AsOrWrap(err error) *XError {
	if xe, ok := As(err); ok {
		return xe
	}
	return Wrap(CodeInternal, err.Error(), nil, err)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	xe, ok := As(err)
	return ok && xe.Code == code
}
