// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package errs defines the ledger error kinds.
// Every rejection of a transaction or an operation carries one of them.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies ledger errors.
type Kind uint8

const (
	Internal Kind = iota
	UnknownEntity
	DuplicateRegistration
	Unauthorized
	InvalidWithdrawCondition
	InsufficientFunds
	Overflow
	TypeMismatch
	UnsupportedOperation
	MalformedPayload
	InvalidArgument
)

var kindNames = [...]string{
	Internal:                 "internal",
	UnknownEntity:            "unknown entity",
	DuplicateRegistration:    "duplicate registration",
	Unauthorized:             "unauthorized",
	InvalidWithdrawCondition: "invalid withdraw condition",
	InsufficientFunds:        "insufficient funds",
	Overflow:                 "overflow",
	TypeMismatch:             "type mismatch",
	UnsupportedOperation:     "unsupported operation",
	MalformedPayload:         "malformed payload",
	InvalidArgument:          "invalid argument",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the ledger error.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind with cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.kind.String() + ": " + e.msg + ": " + e.cause.Error()
	}
	return e.kind.String() + ": " + e.msg
}

// Kind returns the error kind.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the kind of the outermost ledger error in err's chain.
// Errors of other types are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Internal
}

// Is reports whether err is a ledger error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}

func IsUnknownEntity(err error) bool            { return Is(err, UnknownEntity) }
func IsDuplicateRegistration(err error) bool    { return Is(err, DuplicateRegistration) }
func IsUnauthorized(err error) bool             { return Is(err, Unauthorized) }
func IsInvalidWithdrawCondition(err error) bool { return Is(err, InvalidWithdrawCondition) }
func IsInsufficientFunds(err error) bool        { return Is(err, InsufficientFunds) }
func IsOverflow(err error) bool                 { return Is(err, Overflow) }
func IsTypeMismatch(err error) bool             { return Is(err, TypeMismatch) }
func IsUnsupportedOperation(err error) bool     { return Is(err, UnsupportedOperation) }
func IsMalformedPayload(err error) bool         { return Is(err, MalformedPayload) }
func IsInvalidArgument(err error) bool          { return Is(err, InvalidArgument) }
func IsInternal(err error) bool                 { return err != nil && KindOf(err) == Internal }
