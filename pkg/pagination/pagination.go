package pagination

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size applied when the caller omits one.
	DefaultLimit = 20
	// MaxLimit caps how many rows a single page may request.
	MaxLimit = 100
)

// Page holds normalized pagination inputs for list queries.
type Page struct {
	Limit  int
	Cursor *Cursor
}

// Cursor identifies the keyset position after the last row of the
// previous page. Ordering is (created_at DESC, id DESC).
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// FromQuery reads limit and cursor from request query values.
func FromQuery(values url.Values) (Page, error) {
	page := Page{Limit: DefaultLimit}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, fmt.Errorf("invalid limit: %w", err)
		}
		page.Limit = Clamp(n)
	}

	cursor, err := Decode(values.Get("cursor"))
	if err != nil {
		return Page{}, err
	}
	page.Cursor = cursor
	return page, nil
}

// Clamp enforces the default and maximum page sizes.
func Clamp(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// FetchSize returns the clamped limit plus one row used to detect
// whether another page exists.
func FetchSize(limit int) int {
	return Clamp(limit) + 1
}

// Encode serializes a cursor into an opaque token.
func Encode(c Cursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "," + c.ID.String()
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a cursor token. Empty input yields a nil cursor.
func Decode(token string) (*Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor")
	}

	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: at, ID: id}, nil
}
