package domain

import "testing"

// ─── SpenderLabel Tests ─────────────────────────────────────────────────────

func TestAccount_SpenderLabel(t *testing.T) {
	tests := []struct {
		name string
		acct Account
		want string
	}{
		{
			name: "zero outgoing",
			acct: Account{ID: "alice"},
			want: "alice(0)",
		},
		{
			name: "positive outgoing",
			acct: Account{ID: "bob", OutgoingTotal: 2500},
			want: "bob(2500)",
		},
		{
			name: "balance does not leak into label",
			acct: Account{ID: "carol", Balance: 999, OutgoingTotal: 1},
			want: "carol(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.acct.SpenderLabel()
			if got != tt.want {
				t.Errorf("SpenderLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransfer_Resolved(t *testing.T) {
	tests := []struct {
		status TransferStatus
		want   bool
	}{
		{TransferPending, false},
		{TransferAccepted, true},
		{TransferExpired, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			tr := Transfer{Status: tt.status}
			if got := tr.Resolved(); got != tt.want {
				t.Errorf("Resolved() = %v, want %v", got, tt.want)
			}
		})
	}
}
