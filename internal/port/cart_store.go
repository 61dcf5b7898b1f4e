package port

import (
	"context"

	"github.com/Dee-Rock/soucey/internal/core/domain"
)

type CartStore interface {
	// Save writes the full cart for a session, replacing whatever was there
	Save(ctx context.Context, sessionID string, cart domain.Cart) error

	// Load returns the cart for a session; an unknown session yields an empty cart
	Load(ctx context.Context, sessionID string) (domain.Cart, error)

	// Delete drops the session's cart entirely
	Delete(ctx context.Context, sessionID string) error
}
