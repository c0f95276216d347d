package ledger

import (
	"fmt"
	"sync"

	"github.com/ledgerkit/ledgerd/internal/domain"
	"github.com/ledgerkit/ledgerd/internal/metrics"
)

// ─── Engine Configuration ───────────────────────────────────────────────────

// MillisPerDay is 24 hours in the logical millisecond unit used by every
// timestamp the engine sees.
const MillisPerDay int64 = 24 * 60 * 60 * 1000

// Config controls the engine's time windows and cashback rate.
type Config struct {
	TransferWindow  int64 // ms a pending transfer stays acceptable
	CashbackWindow  int64 // ms between a pay and its cashback credit
	CashbackPercent int64 // integer percent, floor division
}

// DefaultConfig returns the standard 24h windows and 2% cashback.
func DefaultConfig() Config {
	return Config{
		TransferWindow:  MillisPerDay,
		CashbackWindow:  MillisPerDay,
		CashbackPercent: 2,
	}
}

// ─── Engine ─────────────────────────────────────────────────────────────────

// Engine orchestrates all account operations. Every public call first
// advances logical time to the caller-supplied timestamp by draining due
// deferred events, so an operation at time T observes the world as if every
// event due at or before T had already fired. There is no background timer:
// time only moves when a caller presents a later timestamp.
//
// Callers must not present timestamps out of order; the engine does not
// sort or buffer out-of-order calls. The internal mutex makes the whole
// drain-then-mutate sequence atomic when the engine is shared.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	accounts  *Registry
	sched     *Scheduler
	transfers map[string]*domain.Transfer
	payments  map[string]*domain.Payment

	transferSeq uint64
	paymentSeq  uint64

	audit domain.AuditSink // nil means no recording
}

// NewEngine creates an engine with the given windows and no audit sink.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		accounts:  NewRegistry(),
		sched:     NewScheduler(),
		transfers: make(map[string]*domain.Transfer),
		payments:  make(map[string]*domain.Payment),
	}
}

// SetAuditSink attaches a sink that receives every applied mutation.
func (e *Engine) SetAuditSink(s domain.AuditSink) {
	e.mu.Lock()
	e.audit = s
	e.mu.Unlock()
}

// ─── Time Advancement ───────────────────────────────────────────────────────

// advance drains the scheduler and applies every event due at or before
// now. Transfer expiries are enqueued at created+window+1, so the uniform
// due<=now rule expires a transfer strictly after the boundary instant
// while cashback (enqueued at exactly pay+window) settles on it.
// Callers hold e.mu.
func (e *Engine) advance(now int64) {
	for _, ev := range e.sched.DrainDue(now) {
		switch v := ev.Value.(type) {
		case *domain.Transfer:
			e.expireTransfer(ev.Due, v)
		case *domain.Payment:
			e.settleCashback(ev.Due, v)
		}
	}
	metrics.ScheduledEvents.Set(float64(e.sched.Len()))
}

// expireTransfer refunds the source of a still-pending transfer. A transfer
// accepted before its event fires is left untouched: terminal states never
// transition again.
func (e *Engine) expireTransfer(at int64, t *domain.Transfer) {
	if t.Resolved() {
		return
	}
	t.Status = domain.TransferExpired
	balance, _ := e.accounts.Credit(t.SourceID, t.Amount)
	e.record(domain.AuditEntry{
		Timestamp: at,
		AccountID: t.SourceID,
		Kind:      domain.AuditExpiryRefund,
		Amount:    t.Amount,
		RefID:     t.ID,
		Balance:   balance,
	})
	metrics.DrainedEvents.WithLabelValues("transfer_expiry").Inc()
}

// settleCashback credits a matured payment's cashback back to the payer.
// The credit does not count as outgoing and does not reverse the pay's
// outgoing increment.
func (e *Engine) settleCashback(at int64, p *domain.Payment) {
	if p.Status != domain.PaymentInProgress {
		return
	}
	p.Status = domain.PaymentCashbackReceived
	balance, _ := e.accounts.Credit(p.AccountID, p.Cashback)
	e.record(domain.AuditEntry{
		Timestamp: at,
		AccountID: p.AccountID,
		Kind:      domain.AuditCashback,
		Amount:    p.Cashback,
		RefID:     p.ID,
		Balance:   balance,
	})
	metrics.DrainedEvents.WithLabelValues("cashback").Inc()
}

func (e *Engine) record(entry domain.AuditEntry) {
	if e.audit != nil {
		e.audit.Record(entry)
	}
}

// ─── Operations ─────────────────────────────────────────────────────────────

// CreateAccount registers a zero-balance account. A duplicate ID is a
// normal outcome and returns false with no mutation.
func (e *Engine) CreateAccount(now int64, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	ok := e.accounts.Create(id)
	if ok {
		metrics.Accounts.Set(float64(e.accounts.Len()))
	}
	countOp("create_account", ok)
	return ok
}

// Deposit credits the account and returns its new balance. The deposit
// does not affect the outgoing total.
func (e *Engine) Deposit(now int64, accountID string, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	if amount < 0 {
		return e.reject("deposit", domain.ErrNegativeAmount)
	}
	balance, ok := e.accounts.Credit(accountID, amount)
	if !ok {
		return e.reject("deposit", domain.ErrAccountNotFound)
	}
	e.record(domain.AuditEntry{
		Timestamp: now,
		AccountID: accountID,
		Kind:      domain.AuditDeposit,
		Amount:    amount,
		Balance:   balance,
	})
	countOp("deposit", true)
	return balance, nil
}

// Pay withdraws amount immediately, counts it as outgoing, and schedules a
// cashback of floor(amount * percent / 100) back to the same account one
// window later. Returns the new payment's ID.
func (e *Engine) Pay(now int64, accountID string, amount int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	if amount < 0 {
		return e.rejectID("pay", domain.ErrNegativeAmount)
	}
	acct, ok := e.accounts.Get(accountID)
	if !ok {
		return e.rejectID("pay", domain.ErrAccountNotFound)
	}
	balance, ok := e.accounts.Debit(accountID, amount)
	if !ok {
		return e.rejectID("pay", domain.ErrInsufficientFunds)
	}
	acct.OutgoingTotal += amount

	e.paymentSeq++
	p := &domain.Payment{
		ID:        fmt.Sprintf("payment%d", e.paymentSeq),
		AccountID: accountID,
		Amount:    amount,
		Cashback:  amount * e.cfg.CashbackPercent / 100,
		DueTime:   now + e.cfg.CashbackWindow,
		Status:    domain.PaymentInProgress,
	}
	e.payments[p.ID] = p
	e.sched.Schedule(p.DueTime, p)
	metrics.ScheduledEvents.Set(float64(e.sched.Len()))

	e.record(domain.AuditEntry{
		Timestamp: now,
		AccountID: accountID,
		Kind:      domain.AuditPay,
		Amount:    amount,
		RefID:     p.ID,
		Balance:   balance,
	})
	countOp("pay", true)
	return p.ID, nil
}

// Transfer withholds amount from the source and creates a pending transfer
// toward the target. The funds are in flight: not at the target until
// acceptance, refunded to the source if the window elapses first. The
// source's outgoing total grows immediately and is never reversed.
func (e *Engine) Transfer(now int64, sourceID, targetID string, amount int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	if amount < 0 {
		return e.rejectID("transfer", domain.ErrNegativeAmount)
	}
	if sourceID == targetID {
		return e.rejectID("transfer", domain.ErrSelfTransfer)
	}
	source, ok := e.accounts.Get(sourceID)
	if !ok {
		return e.rejectID("transfer", domain.ErrAccountNotFound)
	}
	if _, ok := e.accounts.Get(targetID); !ok {
		return e.rejectID("transfer", domain.ErrAccountNotFound)
	}
	balance, ok := e.accounts.Debit(sourceID, amount)
	if !ok {
		return e.rejectID("transfer", domain.ErrInsufficientFunds)
	}
	source.OutgoingTotal += amount

	e.transferSeq++
	t := &domain.Transfer{
		ID:        fmt.Sprintf("transfer%d", e.transferSeq),
		SourceID:  sourceID,
		TargetID:  targetID,
		Amount:    amount,
		CreatedAt: now,
		Status:    domain.TransferPending,
	}
	e.transfers[t.ID] = t
	// The boundary instant created+window is still acceptable; expiry
	// takes effect one millisecond later.
	e.sched.Schedule(now+e.cfg.TransferWindow+1, t)
	metrics.ScheduledEvents.Set(float64(e.sched.Len()))

	e.record(domain.AuditEntry{
		Timestamp: now,
		AccountID: sourceID,
		Kind:      domain.AuditTransferOut,
		Amount:    amount,
		RefID:     t.ID,
		Balance:   balance,
	})
	countOp("transfer", true)
	return t.ID, nil
}

// AcceptTransfer credits the target of a still-pending transfer. The drain
// step runs first: a transfer whose window elapsed as of now has already
// expired by the time the acceptance check runs, and acceptance fails.
func (e *Engine) AcceptTransfer(now int64, accountID, transferID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	t, ok := e.transfers[transferID]
	if !ok {
		return rejectOp("accept_transfer", domain.ErrTransferNotFound)
	}
	if t.Resolved() {
		return rejectOp("accept_transfer", domain.ErrTransferResolved)
	}
	if t.TargetID != accountID {
		return rejectOp("accept_transfer", domain.ErrWrongTarget)
	}

	t.Status = domain.TransferAccepted
	balance, _ := e.accounts.Credit(t.TargetID, t.Amount)
	e.record(domain.AuditEntry{
		Timestamp: now,
		AccountID: t.TargetID,
		Kind:      domain.AuditTransferIn,
		Amount:    t.Amount,
		RefID:     t.ID,
		Balance:   balance,
	})
	countOp("accept_transfer", true)
	return nil
}

// ─── Queries ────────────────────────────────────────────────────────────────

// TopSpenders returns up to n accounts formatted "<id>(<outgoing>)", sorted
// by outgoing total descending, then ID ascending. Calling it twice at the
// same timestamp yields identical results.
func (e *Engine) TopSpenders(now int64, n int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	countOp("top_spenders", true)
	return rankSpenders(e.accounts.All(), n)
}

// GetBalance returns the account balance as of now.
func (e *Engine) GetBalance(now int64, accountID string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	a, ok := e.accounts.Get(accountID)
	if !ok {
		return e.reject("get_balance", domain.ErrAccountNotFound)
	}
	countOp("get_balance", true)
	return a.Balance, nil
}

// GetPaymentStatus returns the status of a payment owned by the given
// account. A matured cashback is reflected even if this is the first call
// to mention the payment, because the drain runs first.
func (e *Engine) GetPaymentStatus(now int64, accountID, paymentID string) (domain.PaymentStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	if _, ok := e.accounts.Get(accountID); !ok {
		countOp("get_payment_status", false)
		return "", domain.ErrAccountNotFound
	}
	p, ok := e.payments[paymentID]
	if !ok || p.AccountID != accountID {
		countOp("get_payment_status", false)
		return "", domain.ErrPaymentNotFound
	}
	countOp("get_payment_status", true)
	return p.Status, nil
}

// GetTransferStatus returns the status of a transfer as of now.
func (e *Engine) GetTransferStatus(now int64, transferID string) (domain.TransferStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(now)
	t, ok := e.transfers[transferID]
	if !ok {
		countOp("get_transfer_status", false)
		return "", domain.ErrTransferNotFound
	}
	countOp("get_transfer_status", true)
	return t.Status, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (e *Engine) reject(op string, err error) (int64, error) {
	return 0, rejectOp(op, err)
}

func (e *Engine) rejectID(op string, err error) (string, error) {
	return "", rejectOp(op, err)
}

func rejectOp(op string, err error) error {
	countOp(op, false)
	return err
}

func countOp(op string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	metrics.Operations.WithLabelValues(op, outcome).Inc()
}
