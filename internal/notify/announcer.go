// Package notify announces catalog events to external channels. Announcements
// are strictly best-effort: callers log and discard any error, and a failed
// announcement never affects the operation that triggered it.
package notify

import "context"

// Announcement kinds.
const (
	KindStoreCreated   = "store_created"
	KindProductCreated = "product_created"
)

// Announcement describes a catalog event worth publicizing.
type Announcement struct {
	Kind        string
	StoreName   string
	ProductName string
	Price       string
	Description string
}

// Announcer posts an announcement to an external channel. Implementations
// must be safe for concurrent use.
type Announcer interface {
	Announce(ctx context.Context, a Announcement) error
}

// Noop is an Announcer that does nothing. It is selected when the posting
// API credentials are not configured.
type Noop struct{}

// Announce implements Announcer.
func (Noop) Announce(context.Context, Announcement) error { return nil }
