package quotes

import (
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// CanTransition reports whether the actor may move a quote between the
// given statuses. Pure decision, no side effects: disallowed moves,
// unknown roles, and malformed statuses all come back false.
//
// Only the archive and reopen paths run through this guard. Forward
// progression (draft → in_review → quoted → ...) is driven by admin
// tooling that writes statuses directly.
func CanTransition(fromStatus, toStatus, actorRole string) bool {
	role, err := enums.ParseActorRole(actorRole)
	if err != nil {
		return false
	}
	if role != enums.ActorRoleAdmin && role != enums.ActorRoleCustomer {
		return false
	}

	from := enums.NormalizeQuoteStatus(fromStatus)
	to, err := enums.ParseQuoteStatus(toStatus)
	if err != nil {
		return false
	}

	switch to {
	case enums.QuoteStatusCancelled:
		// Cancelling an already-cancelled quote is a no-op the caller
		// should reject, not silently accept.
		return from != enums.QuoteStatusCancelled
	case enums.QuoteStatusInReview:
		// Reopen only applies to closed-out quotes.
		return from == enums.QuoteStatusCancelled || from == enums.QuoteStatusLost
	default:
		return false
	}
}
