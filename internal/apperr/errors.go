// Package apperr holds the error taxonomy shared by the services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindBusinessRule
	KindInvalid
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBusinessRule:
		return "business_rule"
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Code narrows a business rule violation.
type Code string

const (
	CodeInsufficientStock Code = "insufficient_stock"
	CodeUnavailable       Code = "unavailable"
	CodeNotInCart         Code = "not_in_cart"
	CodeEmptyCart         Code = "empty_cart"
	CodeEmpty             Code = "empty"
	CodeIllegalTransition Code = "illegal_transition"
)

// Error is the structured error returned by every service operation.
type Error struct {
	Kind     Kind
	Code     Code
	Message  string
	Resource string
	Field    string
	Value    any
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind, and on Code when the target carries one. This lets the
// sentinels below be used with errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	if t.Resource != "" && t.Resource != e.Resource {
		return false
	}
	return true
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInvalid           = &Error{Kind: KindInvalid}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInsufficientStock = &Error{Kind: KindBusinessRule, Code: CodeInsufficientStock}
	ErrUnavailable       = &Error{Kind: KindBusinessRule, Code: CodeUnavailable}
	ErrNotInCart         = &Error{Kind: KindBusinessRule, Code: CodeNotInCart}
	ErrEmptyCart         = &Error{Kind: KindBusinessRule, Code: CodeEmptyCart}
	ErrEmpty             = &Error{Kind: KindBusinessRule, Code: CodeEmpty}
	ErrIllegalTransition = &Error{Kind: KindBusinessRule, Code: CodeIllegalTransition}
)

// NotFound reports a missing resource looked up by field = value.
func NotFound(resource, field string, value any) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  fmt.Sprintf("%s not found with %s: %v", resource, field, value),
		Resource: resource,
		Field:    field,
		Value:    value,
	}
}

// NotFoundIn is a NotFound sentinel scoped to one resource, for errors.Is.
func NotFoundIn(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Rule builds a business rule violation with the given code.
func Rule(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into an *Error when it is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
