package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerkit/ledgerd/internal/domain"
)

// ─── Request Bodies ─────────────────────────────────────────────────────────
// Every mutating request carries the caller's logical timestamp; read-only
// endpoints take it as a query parameter. Timestamps must be non-decreasing
// across the life of the daemon — that is the engine's API contract.

type createAccountRequest struct {
	Timestamp int64  `json:"timestamp"`
	ID        string `json:"id"`
}

type amountRequest struct {
	Timestamp int64 `json:"timestamp"`
	Amount    int64 `json:"amount"`
}

type transferRequest struct {
	Timestamp int64  `json:"timestamp"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Amount    int64  `json:"amount"`
}

type acceptRequest struct {
	Timestamp int64  `json:"timestamp"`
	AccountID string `json:"account_id"`
}

// ─── Handlers ───────────────────────────────────────────────────────────────

// POST /v1/accounts
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if !s.engine.CreateAccount(req.Timestamp, req.ID) {
		writeError(w, http.StatusConflict, domain.ErrAccountExists.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// GET /v1/accounts/{id}?timestamp=
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	now, ok := queryTimestamp(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	balance, err := s.engine.GetBalance(now, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"balance": balance,
	})
}

// POST /v1/accounts/{id}/deposit
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	balance, err := s.engine.Deposit(req.Timestamp, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// POST /v1/accounts/{id}/pay
func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	paymentID, err := s.engine.Pay(req.Timestamp, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"payment_id": paymentID})
}

// GET /v1/accounts/{id}/payments/{paymentID}?timestamp=
func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	now, ok := queryTimestamp(w, r)
	if !ok {
		return
	}
	status, err := s.engine.GetPaymentStatus(now, chi.URLParam(r, "id"), chi.URLParam(r, "paymentID"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// GET /v1/accounts/{id}/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, "journal not configured")
		return
	}
	entries, err := s.journal.History(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// POST /v1/transfers
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	transferID, err := s.engine.Transfer(req.Timestamp, req.Source, req.Target, req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"transfer_id": transferID})
}

// POST /v1/transfers/{id}/accept
func (s *Server) handleAcceptTransfer(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.engine.AcceptTransfer(req.Timestamp, req.AccountID, chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

// GET /v1/transfers/{id}?timestamp=
func (s *Server) handleTransferStatus(w http.ResponseWriter, r *http.Request) {
	now, ok := queryTimestamp(w, r)
	if !ok {
		return
	}
	status, err := s.engine.GetTransferStatus(now, chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// GET /v1/spenders?timestamp=&n=
func (s *Server) handleTopSpenders(w http.ResponseWriter, r *http.Request) {
	now, ok := queryTimestamp(w, r)
	if !ok {
		return
	}
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"spenders": s.engine.TopSpenders(now, n),
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// queryTimestamp parses the required timestamp query parameter. On failure
// it writes the error response and returns ok=false.
func queryTimestamp(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("timestamp")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "timestamp query parameter is required")
		return 0, false
	}
	now, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || now < 0 {
		writeError(w, http.StatusBadRequest, "timestamp must be a non-negative integer")
		return 0, false
	}
	return now, true
}

// writeEngineError maps a domain sentinel to an HTTP status.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTransferResolved),
		errors.Is(err, domain.ErrAccountExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrWrongTarget):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
