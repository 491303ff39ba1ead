package enums

import "testing"

func TestParseQuoteStatusLegacyWinAlias(t *testing.T) {
	status, err := ParseQuoteStatus("win")
	if err != nil {
		t.Fatalf("legacy alias should parse: %v", err)
	}
	if status != QuoteStatusWon {
		t.Fatalf("expected won, got %s", status)
	}
}

func TestNormalizeQuoteStatusDefaultsToDraft(t *testing.T) {
	if got := NormalizeQuoteStatus("totally-bogus"); got != QuoteStatusDraft {
		t.Fatalf("expected draft fallback, got %s", got)
	}
	if got := NormalizeQuoteStatus("cancelled"); got != QuoteStatusCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}
}

func TestQuoteStatusTerminal(t *testing.T) {
	for _, status := range []QuoteStatus{QuoteStatusWon, QuoteStatusLost, QuoteStatusCancelled} {
		if !status.IsTerminal() {
			t.Fatalf("%s should be terminal", status)
		}
	}
	for _, status := range []QuoteStatus{QuoteStatusDraft, QuoteStatusInReview, QuoteStatusQuoted, QuoteStatusApproved} {
		if status.IsTerminal() {
			t.Fatalf("%s should not be terminal", status)
		}
	}
}
