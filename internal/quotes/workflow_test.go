package quotes

import "testing"

func TestCanTransitionTable(t *testing.T) {
	statuses := []string{"draft", "in_review", "quoted", "approved", "won", "lost", "cancelled"}
	roles := []string{"customer", "supplier", "admin", "system"}

	allowed := func(from, to, role string) bool {
		if role != "customer" && role != "admin" {
			return false
		}
		switch to {
		case "cancelled":
			return from != "cancelled"
		case "in_review":
			return from == "cancelled" || from == "lost"
		default:
			return false
		}
	}

	for _, from := range statuses {
		for _, to := range statuses {
			for _, role := range roles {
				want := allowed(from, to, role)
				got := CanTransition(from, to, role)
				if got != want {
					t.Errorf("CanTransition(%q, %q, %q) = %v, want %v", from, to, role, got, want)
				}
			}
		}
	}
}

func TestCanTransitionExamples(t *testing.T) {
	if !CanTransition("lost", "in_review", "customer") {
		t.Error("reopening a lost quote as customer should be allowed")
	}
	if CanTransition("draft", "in_review", "customer") {
		t.Error("draft quotes cannot be reopened, they were never closed")
	}
	if CanTransition("won", "cancelled", "supplier") {
		t.Error("suppliers never drive these transitions")
	}
}

func TestCanTransitionNormalizesInputs(t *testing.T) {
	// Unknown source statuses normalize to draft, which can still be cancelled.
	if !CanTransition("garbage", "cancelled", "admin") {
		t.Error("unknown source should normalize to draft and allow cancel")
	}
	if CanTransition("garbage", "in_review", "admin") {
		t.Error("normalized draft cannot be reopened")
	}

	// Legacy "win" rows behave as won.
	if !CanTransition("win", "cancelled", "admin") {
		t.Error("legacy win alias should cancel like won")
	}
	if CanTransition("win", "in_review", "admin") {
		t.Error("legacy win alias cannot be reopened")
	}

	// Malformed targets and roles are rejected outright.
	if CanTransition("lost", "nonsense", "admin") {
		t.Error("unknown target status must be rejected")
	}
	if CanTransition("lost", "in_review", "") {
		t.Error("empty role must be rejected")
	}
}
