package ledger

import (
	"sort"

	"github.com/ledgerkit/ledgerd/internal/domain"
)

// ─── Spend Ranking ──────────────────────────────────────────────────────────

// rankSpenders orders accounts by outgoing total descending, breaking ties
// by ID ascending, and returns at most n formatted labels. Fewer than n
// accounts means all of them.
func rankSpenders(accounts []*domain.Account, n int) []string {
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].OutgoingTotal != accounts[j].OutgoingTotal {
			return accounts[i].OutgoingTotal > accounts[j].OutgoingTotal
		}
		return accounts[i].ID < accounts[j].ID
	})

	if n > len(accounts) {
		n = len(accounts)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, 0, n)
	for _, a := range accounts[:n] {
		out = append(out, a.SpenderLabel())
	}
	return out
}
