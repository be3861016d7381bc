// Package enginerr defines the stable error taxonomy surfaced by the
// lifecycle engine. Every engine-raised error carries a Code that callers
// can switch on without parsing message text.
package enginerr

import (
	"errors"
	"fmt"
)

// Code is a stable, switchable error classification.
type Code string

const (
	InvalidInput             Code = "InvalidInput"
	InvalidTransition        Code = "InvalidTransition"
	AssetNotOnBitcoin        Code = "AssetNotOnBitcoin"
	InsufficientFunds        Code = "InsufficientFunds"
	TooLowFee                Code = "TooLowFee"
	DustOutput               Code = "DustOutput"
	ConflictingLocks         Code = "ConflictingLocks"
	AllInputsCarryInscription Code = "AllInputsCarryInscription"
	SatSafety                Code = "SatSafety"
	OrdProviderRequired      Code = "OrdProviderRequired"
	OrdProviderUnsupported   Code = "OrdProviderUnsupported"
	OrdProviderInvalidResponse Code = "OrdProviderInvalidResponse"
	SatoshiRequired          Code = "SatoshiRequired"
	StorageError             Code = "StorageError"
	NetworkError             Code = "NetworkError"
)

// Retryable classifies a code's default retry eligibility for the batch
// executor: validation and transition errors are deterministic and never
// retried; adapter-facing errors are treated as transient.
func (c Code) Retryable() bool {
	switch c {
	case InvalidInput, InvalidTransition, AssetNotOnBitcoin, InsufficientFunds,
		TooLowFee, DustOutput, ConflictingLocks, AllInputsCarryInscription,
		SatSafety, OrdProviderRequired, OrdProviderUnsupported, SatoshiRequired:
		return false
	case OrdProviderInvalidResponse, StorageError, NetworkError:
		return true
	default:
		return false
	}
}

// Error is the engine's typed error: a stable code, a human message, and an
// optional wrapped cause (adapter errors are never swallowed).
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a local, non-wrapped engine error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a local, non-wrapped engine error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying adapter error, keeping
// the original cause reachable via errors.Unwrap.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the Code from err, or "" if err is not an engine error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
