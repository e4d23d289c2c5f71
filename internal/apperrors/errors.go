package apperrors

import "errors"

// Billing workflow errors. Invariant violations are detected at the storage
// boundary (record-not-found, duplicated key, zero-row conditional updates)
// and translated into these sentinels exactly once, at the service layer.
// Anything that does not match one of them is an internal failure.
var (
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("billing: not found")
	// ErrForbidden indicates an ownership or role mismatch.
	ErrForbidden = errors.New("billing: forbidden")
	// ErrInvalidState occurs when an operation is not legal for the current status.
	ErrInvalidState = errors.New("billing: invalid state transition")
	// ErrDuplicatePending indicates an unpaid invoice already exists for the
	// same student and billing type.
	ErrDuplicatePending = errors.New("billing: duplicate pending invoice")
	// ErrDuplicateClaim indicates an open payment claim already exists for the invoice.
	ErrDuplicateClaim = errors.New("billing: duplicate payment claim")
	// ErrAlreadyPaid indicates the invoice has already been settled.
	ErrAlreadyPaid = errors.New("billing: invoice already paid")
	// ErrAmountTooLow indicates the claimed amount does not cover the invoice.
	ErrAmountTooLow = errors.New("billing: amount below invoice amount")
	// ErrMissingReason indicates a rejection without a reason.
	ErrMissingReason = errors.New("billing: rejection reason is required")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("billing: invalid input")
)
