package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the engine depends on them.

// AuditKind classifies an applied ledger mutation.
type AuditKind string

const (
	AuditDeposit      AuditKind = "deposit"
	AuditPay          AuditKind = "pay"
	AuditTransferOut  AuditKind = "transfer_out"
	AuditTransferIn   AuditKind = "transfer_in"
	AuditExpiryRefund AuditKind = "expiry_refund"
	AuditCashback     AuditKind = "cashback"
)

// AuditEntry is one applied balance mutation, in the order it took effect.
// Balance is the account balance immediately after the mutation.
type AuditEntry struct {
	Timestamp int64     `json:"timestamp"`
	AccountID string    `json:"account_id"`
	Kind      AuditKind `json:"kind"`
	Amount    int64     `json:"amount"`
	RefID     string    `json:"ref_id,omitempty"`
	Balance   int64     `json:"balance"`
}

// AuditSink consumes applied mutations. Implementations must not fail the
// mutation itself: the engine treats recording as fire-and-forget.
type AuditSink interface {
	Record(e AuditEntry)
}
