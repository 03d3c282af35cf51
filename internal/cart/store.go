package cart

import "context"

// Store keeps one quantity map per session. Implementations must be safe
// for concurrent use; each mutation is atomic with respect to the session's
// map.
type Store interface {
	Initialize(ctx context.Context) error

	// AddItem and IncreaseItem apply the clamped increment for productID
	// with max as the stock ceiling (Unbounded for none).
	AddItem(ctx context.Context, sessionID, productID string, max int32) error
	IncreaseItem(ctx context.Context, sessionID, productID string, max int32) error
	DecreaseItem(ctx context.Context, sessionID, productID string) error
	EmptyCart(ctx context.Context, sessionID string) error
	GetCart(ctx context.Context, sessionID string) (QuantityMap, error)

	Ping(ctx context.Context) bool
}
