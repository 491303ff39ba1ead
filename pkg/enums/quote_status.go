package enums

import "fmt"

// QuoteStatus tracks the workflow stage of an RFQ.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusInReview  QuoteStatus = "in_review"
	QuoteStatusQuoted    QuoteStatus = "quoted"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusWon       QuoteStatus = "won"
	QuoteStatusLost      QuoteStatus = "lost"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

// legacyQuoteStatusAliases maps historical status spellings onto the
// canonical enumeration. "win" predates the rename to "won" and still
// appears in old rows.
var legacyQuoteStatusAliases = map[string]QuoteStatus{
	"win": QuoteStatusWon,
}

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusDraft,
	QuoteStatusInReview,
	QuoteStatusQuoted,
	QuoteStatusApproved,
	QuoteStatusWon,
	QuoteStatusLost,
	QuoteStatusCancelled,
}

// String implements fmt.Stringer.
func (q QuoteStatus) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuoteStatus.
func (q QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status closes out the quote.
func (q QuoteStatus) IsTerminal() bool {
	return q == QuoteStatusWon || q == QuoteStatusLost || q == QuoteStatusCancelled
}

// ParseQuoteStatus converts raw input into a QuoteStatus, resolving
// legacy aliases to their canonical value.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	if alias, ok := legacyQuoteStatusAliases[value]; ok {
		return alias, nil
	}
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}

// NormalizeQuoteStatus resolves raw input to a canonical status,
// defaulting unrecognized values to draft.
func NormalizeQuoteStatus(value string) QuoteStatus {
	status, err := ParseQuoteStatus(value)
	if err != nil {
		return QuoteStatusDraft
	}
	return status
}
