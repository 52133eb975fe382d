package attr

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes attribute errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates a value failed its declared type or bounds check.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeConstantViolation indicates a write to a constant attribute
	// outside an active override scope.
	ErrCodeConstantViolation ErrorCode = "CONSTANT_VIOLATION"

	// ErrCodeCyclicDependency indicates the same (owner, attribute) was
	// rewritten too many times within one propagation chain.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"

	// ErrCodeUnknownAttribute indicates a set or watch referenced a name
	// that is not declared in the owner's schema.
	ErrCodeUnknownAttribute ErrorCode = "UNKNOWN_ATTRIBUTE"
)

// Generator construction errors carry the GENERATOR_CONFIG code and live in
// the gen package (gen.ConfigError); attr depends on gen, not the reverse.

// Error represents a structured attribute-system error.
//
// Every error surfaced by Set, Watch, and generator construction carries a
// code from the taxonomy above plus enough context to identify the failing
// write without string matching.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Attr is the attribute name, when the error concerns one.
	Attr string

	// Owner is the owner label, when the error concerns an owner instance.
	Owner string

	// Details contains additional context (limits, offending values).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Owner != "" && e.Attr != "" {
		return fmt.Sprintf("%s: %s (owner=%s, attr=%s)", e.Code, e.Message, e.Owner, e.Attr)
	}
	if e.Attr != "" {
		return fmt.Sprintf("%s: %s (attr=%s)", e.Code, e.Message, e.Attr)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidation returns true if the error is a validation failure.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsConstantViolation returns true if the error is a constant-write violation.
func IsConstantViolation(err error) bool { return hasCode(err, ErrCodeConstantViolation) }

// IsCyclicDependency returns true if the error is a cycle-guard trip.
func IsCyclicDependency(err error) bool { return hasCode(err, ErrCodeCyclicDependency) }

// IsUnknownAttribute returns true if the error references an undeclared name.
func IsUnknownAttribute(err error) bool { return hasCode(err, ErrCodeUnknownAttribute) }

func hasCode(err error, code ErrorCode) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// NewValidationError creates an Error for a failed type/bounds check.
func NewValidationError(owner, attrName, msg string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: msg,
		Owner:   owner,
		Attr:    attrName,
	}
}

// NewConstantViolationError creates an Error for a constant write outside
// an override scope.
func NewConstantViolationError(owner, attrName string) *Error {
	return &Error{
		Code:    ErrCodeConstantViolation,
		Message: "attribute is constant; writes require an override scope",
		Owner:   owner,
		Attr:    attrName,
	}
}

// NewCyclicDependencyError creates an Error for a cycle-guard trip.
func NewCyclicDependencyError(owner, attrName string, writes, limit int) *Error {
	return &Error{
		Code:    ErrCodeCyclicDependency,
		Message: fmt.Sprintf("attribute rewritten %d times in one propagation chain (limit %d)", writes, limit),
		Owner:   owner,
		Attr:    attrName,
		Details: map[string]string{
			"writes": fmt.Sprintf("%d", writes),
			"limit":  fmt.Sprintf("%d", limit),
		},
	}
}

// NewUnknownAttributeError creates an Error for an undeclared attribute name.
func NewUnknownAttributeError(owner, attrName string) *Error {
	return &Error{
		Code:    ErrCodeUnknownAttribute,
		Message: "attribute not declared in schema",
		Owner:   owner,
		Attr:    attrName,
	}
}
