package ledger

import "testing"

func TestRegistry_CreateDuplicate(t *testing.T) {
	r := NewRegistry()

	if !r.Create("alice") {
		t.Fatal("first Create should succeed")
	}
	if r.Create("alice") {
		t.Error("duplicate Create should return false")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_DebitInsufficient(t *testing.T) {
	r := NewRegistry()
	r.Create("alice")
	r.Credit("alice", 100)

	if _, ok := r.Debit("alice", 101); ok {
		t.Error("Debit beyond balance should fail")
	}
	a, _ := r.Get("alice")
	if a.Balance != 100 {
		t.Errorf("balance after refused debit = %d, want 100 (no mutation)", a.Balance)
	}

	balance, ok := r.Debit("alice", 100)
	if !ok || balance != 0 {
		t.Errorf("Debit(100) = (%d, %v), want (0, true)", balance, ok)
	}
}

func TestRegistry_UnknownAccount(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("ghost"); ok {
		t.Error("Get on unknown account should report not found")
	}
	if _, ok := r.Credit("ghost", 10); ok {
		t.Error("Credit on unknown account should fail")
	}
	if _, ok := r.Debit("ghost", 10); ok {
		t.Error("Debit on unknown account should fail")
	}
}

func TestRegistry_AllSortedByID(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zoe", "adam", "mike"} {
		r.Create(id)
	}

	all := r.All()
	want := []string{"adam", "mike", "zoe"}
	for i, a := range all {
		if a.ID != want[i] {
			t.Errorf("All()[%d].ID = %q, want %q", i, a.ID, want[i])
		}
	}
}
