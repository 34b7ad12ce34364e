package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindPrecondition ErrorKind = "PRECONDITION_FAILED"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindInternal     ErrorKind = "INTERNAL"
)

// Error is the error type returned by the front-desk core. Two errors are
// the same (for errors.Is) when their codes match.
type Error struct {
	Kind    ErrorKind              `json:"kind"`
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Err     error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) clone() *Error {
	c := *e
	if e.Meta != nil {
		c.Meta = make(map[string]interface{}, len(e.Meta))
		for k, v := range e.Meta {
			c.Meta[k] = v
		}
	}
	return &c
}

// WithMeta returns a copy carrying an extra detail for the operator.
func (e *Error) WithMeta(key string, value interface{}) *Error {
	c := e.clone()
	if c.Meta == nil {
		c.Meta = make(map[string]interface{}, 1)
	}
	c.Meta[key] = value
	return c
}

func (e *Error) WithError(err error) *Error {
	c := e.clone()
	c.Err = err
	return c
}

func NewError(kind ErrorKind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation errors (1000-1999)
var (
	ErrGuestNameTooShort  = NewError(KindValidation, 1001, "guest name must be at least 2 characters")
	ErrNonPositiveAmount  = NewError(KindValidation, 1002, "amount must be greater than zero")
	ErrEmptyDescription   = NewError(KindValidation, 1003, "charge description is required")
	ErrInvalidStatus      = NewError(KindValidation, 1004, "invalid room status")
	ErrInvalidCondition   = NewError(KindValidation, 1005, "invalid room condition")
	ErrInvalidAmenity     = NewError(KindValidation, 1006, "invalid amenity value")
	ErrInvalidCategory    = NewError(KindValidation, 1007, "invalid charge category")
	ErrInvalidMethod      = NewError(KindValidation, 1008, "invalid payment method")
	ErrInvalidExpectedOut = NewError(KindValidation, 1009, "expected check-out must not precede check-in")
	ErrInvalidRoomID      = NewError(KindValidation, 1010, "room id is required")
	ErrInvalidRequest     = NewError(KindValidation, 1011, "malformed request")
)

// Precondition errors (2000-2999)
var (
	ErrRoomNotAvailable = NewError(KindPrecondition, 2001, "room is not available")
	ErrBalanceDue       = NewError(KindPrecondition, 2002, "balance due")
	ErrRoomNotOccupied  = NewError(KindPrecondition, 2003, "room is not occupied")
)

// Not found errors (3000-3999)
var (
	ErrRoomNotFound  = NewError(KindNotFound, 3001, "room not found")
	ErrStayNotFound  = NewError(KindNotFound, 3002, "no active stay for room")
	ErrFolioNotFound = NewError(KindNotFound, 3003, "folio not found")
)

// Conflict errors (4000-4999)
var (
	ErrStayConflict = NewError(KindConflict, 4001, "room already has an active stay, refresh and retry")
)

var ErrInternal = NewError(KindInternal, 5000, "internal error")

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError returns err as *Error, wrapping foreign errors as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithError(err)
}
