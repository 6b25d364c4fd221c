package domain

import "time"

// AccountHandle is a platform username as supplied by configuration or a caller.
type AccountHandle string

// AccountID is the opaque platform identifier a handle resolves to.
type AccountID string

// Post is the most recent piece of content fetched for a tracked account.
type Post struct {
	ID   string
	Text string
	// CreatedAt is the zero time when the platform omitted created_at.
	CreatedAt time.Time
}

// HasTimestamp reports whether the platform supplied a creation time.
func (p Post) HasTimestamp() bool {
	return !p.CreatedAt.IsZero()
}
