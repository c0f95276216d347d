package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every engine
// failure maps to exactly one of these; none is fatal and a failed call
// never leaves state partially mutated.

var (
	// Referential failures
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrPaymentNotFound  = errors.New("payment not found")

	// Validation failures
	ErrNegativeAmount    = errors.New("amount must be non-negative")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("source and target must differ")

	// Temporal failures
	ErrTransferResolved = errors.New("transfer already accepted or expired")
	ErrWrongTarget      = errors.New("account is not the transfer target")
)
