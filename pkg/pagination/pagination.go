package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the member directory page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
	// FeedLimit is the default size of the upcoming-events and recent-content feeds.
	FeedLimit = 10
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Bounds pairs a default page size with a hard cap.
type Bounds struct {
	Default int
	Max     int
}

// FeedBounds applies to catalog feeds unless configuration overrides it.
var FeedBounds = Bounds{Default: FeedLimit, Max: MaxLimit}

// Normalize maps non-positive limits to the default and clamps to the cap.
func (b Bounds) Normalize(limit int) int {
	def := b.Default
	if def <= 0 {
		def = DefaultLimit
	}
	max := b.Max
	if max <= 0 {
		max = MaxLimit
	}
	if def > max {
		def = max
	}
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Cursor represents the pagination cursor components.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit enforces the directory default and maximum limits.
func NormalizeLimit(limit int) int {
	return Bounds{Default: DefaultLimit, Max: MaxLimit}.Normalize(limit)
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Trim drops the buffer row fetched by LimitWithBuffer and reports whether a
// further page exists.
func Trim[T any](rows []T, limit int) ([]T, bool) {
	pageSize := NormalizeLimit(limit)
	if len(rows) <= pageSize {
		return rows, false
	}
	return rows[:pageSize], true
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components. A blank
// value yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{
		CreatedAt: t,
		ID:        id,
	}, nil
}
