// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "fmt"

// ─── Account ────────────────────────────────────────────────────────────────

// Account is a single ledger account. Amounts are int64 in the smallest
// currency unit (cents); timestamps are int64 logical milliseconds supplied
// by the caller on every operation.
type Account struct {
	ID      string `json:"id"`
	Balance int64  `json:"balance"`

	// OutgoingTotal accumulates money sent via pay and transfer. It is
	// never decremented: expiry refunds and cashback credits do not
	// reverse a prior increment.
	OutgoingTotal int64 `json:"outgoing_total"`
}

// SpenderLabel formats the account for ranking output: "<id>(<outgoing>)".
func (a *Account) SpenderLabel() string {
	return fmt.Sprintf("%s(%d)", a.ID, a.OutgoingTotal)
}

// ─── Transfer ───────────────────────────────────────────────────────────────

// TransferStatus is the lifecycle state of a peer-to-peer transfer.
type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferAccepted TransferStatus = "accepted"
	TransferExpired  TransferStatus = "expired"
)

// Transfer is money in flight between two accounts. Funds leave the source
// at creation and reach the target only on acceptance; an unaccepted
// transfer is refunded to the source once its window elapses.
type Transfer struct {
	ID        string         `json:"id"`
	SourceID  string         `json:"source_id"`
	TargetID  string         `json:"target_id"`
	Amount    int64          `json:"amount"`
	CreatedAt int64          `json:"created_at"`
	Status    TransferStatus `json:"status"`
}

// Resolved reports whether the transfer has reached a terminal state.
// Terminal states never transition again.
func (t *Transfer) Resolved() bool {
	return t.Status != TransferPending
}

// ─── Payment ────────────────────────────────────────────────────────────────

// PaymentStatus is the lifecycle state of a pay-with-cashback operation.
type PaymentStatus string

const (
	PaymentInProgress       PaymentStatus = "in_progress"
	PaymentCashbackReceived PaymentStatus = "cashback_received"
)

// Payment records a pay operation whose cashback is still owed or has been
// credited. The amount is withdrawn immediately; Cashback is credited back
// to the same account once DueTime is reached.
type Payment struct {
	ID        string        `json:"id"`
	AccountID string        `json:"account_id"`
	Amount    int64         `json:"amount"`
	Cashback  int64         `json:"cashback"`
	DueTime   int64         `json:"due_time"`
	Status    PaymentStatus `json:"status"`
}
