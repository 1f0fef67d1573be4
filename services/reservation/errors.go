package reservation

import (
	"errors"
	"fmt"
)

const (
	CodeMaxReservationCount        = "maxReservationCount"
	CodeNonConsecutiveReservations = "nonConsecutiveReservations"
	CodeNetworkError               = "networkError"
	CodeRequestFailed              = "requestFailed"
	CodeDecodingError              = "decodingError"
	CodeUnauthorized               = "unauthorized"
	CodeSlotAlreadyReserved        = "slotAlreadyReserved"
	CodeUnknownDay                 = "unknownDay"
	CodeUnknownTimeSlot            = "unknownTimeSlot"
	CodeIncompleteReservation      = "incompleteReservation"
)

// ReservationError is a classified reservation failure.
type ReservationError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReservationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReservationError) Unwrap() error {
	return e.Err
}

// Is matches any ReservationError carrying the same code.
func (e *ReservationError) Is(target error) bool {
	t, ok := target.(*ReservationError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrMaxReservationCount = &ReservationError{
		Code:    CodeMaxReservationCount,
		Message: "at most 2 time slots can be reserved",
	}
	ErrNonConsecutiveReservations = &ReservationError{
		Code:    CodeNonConsecutiveReservations,
		Message: "reserved time slots must be consecutive",
	}
	ErrUnknownDay = &ReservationError{
		Code:    CodeUnknownDay,
		Message: "calendar day not found",
	}
	ErrUnknownTimeSlot = &ReservationError{
		Code:    CodeUnknownTimeSlot,
		Message: "time slot not found",
	}
	ErrIncompleteReservation = &ReservationError{
		Code:    CodeIncompleteReservation,
		Message: "reservation is not ready to be submitted",
	}
)

func NewNetworkError(err error) error {
	return &ReservationError{Code: CodeNetworkError, Message: "network request failed", Err: err}
}

func NewRequestFailedError(status int, msg string) error {
	return &ReservationError{Code: CodeRequestFailed, Message: fmt.Sprintf("status %d: %s", status, msg)}
}

func NewDecodingError(err error) error {
	return &ReservationError{Code: CodeDecodingError, Message: "could not decode response", Err: err}
}

func NewUnauthorizedError(msg string) error {
	return &ReservationError{Code: CodeUnauthorized, Message: msg}
}

func NewSlotAlreadyReservedError(msg string) error {
	return &ReservationError{Code: CodeSlotAlreadyReserved, Message: msg}
}

// AsReservationError returns the classified error inside err, or nil.
func AsReservationError(err error) *ReservationError {
	if err == nil {
		return nil
	}

	var rErr *ReservationError
	if errors.As(err, &rErr) {
		return rErr
	}
	return nil
}

// classify turns any collaborator failure into a ReservationError.
// Unclassified errors are reported as network errors.
func classify(err error) *ReservationError {
	if rErr := AsReservationError(err); rErr != nil {
		return rErr
	}
	return NewNetworkError(err).(*ReservationError)
}
