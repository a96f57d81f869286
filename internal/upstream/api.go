package upstream

import "context"

// Identity is the platform-side identity resolved from a username.
type Identity struct {
	UserID    string
	Following bool
}

// MutedEntry is one account from the platform's muted-accounts listing.
type MutedEntry struct {
	UserID      string
	Username    string
	DisplayName string
}

// MutedPage is one page of the cursor-paginated muted-accounts listing.
// NextCursor is empty on the last page.
type MutedPage struct {
	Entries    []MutedEntry
	NextCursor string
}

// API is the platform client consumed by the disposition and unmute services.
// Lookups report a missing value as a nil/empty result with a nil error;
// errors mean the call itself failed. Callers treat both as "cannot decide".
type API interface {
	// ResolveIdentity returns the user id and follow status for a username,
	// or nil when the account does not resolve.
	ResolveIdentity(ctx context.Context, username string) (*Identity, error)
	// ResolveCountry returns the account's declared country, or "" when the
	// account has none.
	ResolveCountry(ctx context.Context, username string) (string, error)
	Mute(ctx context.Context, userID string) error
	Unmute(ctx context.Context, userID string) error
	ListMuted(ctx context.Context, cursor string) (*MutedPage, error)
}
