package pagination

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClamp(t *testing.T) {
	if got := Clamp(0); got != DefaultLimit {
		t.Fatalf("Clamp(0) = %d, want %d", got, DefaultLimit)
	}
	if got := Clamp(-3); got != DefaultLimit {
		t.Fatalf("Clamp(-3) = %d, want %d", got, DefaultLimit)
	}
	if got := Clamp(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("Clamp over max = %d, want %d", got, MaxLimit)
	}
	if got := Clamp(7); got != 7 {
		t.Fatalf("Clamp(7) = %d, want 7", got)
	}
	if got := FetchSize(7); got != 8 {
		t.Fatalf("FetchSize(7) = %d, want 8", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		ID:        uuid.New(),
	}

	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got == nil {
		t.Fatal("Decode returned nil cursor")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode("  ")
	if err != nil {
		t.Fatalf("Decode empty: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil cursor, got %+v", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := Decode("bm8tY29tbWEtaGVyZQ=="); err == nil {
		t.Fatal("expected error for missing separator")
	}
}

func TestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "500")

	page, err := FromQuery(values)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}
	if page.Limit != MaxLimit {
		t.Fatalf("limit = %d, want %d", page.Limit, MaxLimit)
	}
	if page.Cursor != nil {
		t.Fatalf("expected nil cursor, got %+v", page.Cursor)
	}

	values.Set("limit", "abc")
	if _, err := FromQuery(values); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}
