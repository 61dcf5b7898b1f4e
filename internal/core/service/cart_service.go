package service

import (
	"context"
	"log"

	"github.com/Dee-Rock/soucey/internal/core/domain"
	"github.com/Dee-Rock/soucey/internal/port"
)

// PersistenceWarning reports a swallowed cart-store failure. Cart
// mutations never fail on store errors; the failure is logged and emitted
// here instead so the suppressed path is observable.
type PersistenceWarning struct {
	SessionID string
	Op        string
	Err       error
}

// CartService is the cart manager: the authoritative list of intended
// purchases for each session, written through to the cart store on every
// mutation so a later load reconstructs identical state.
type CartService struct {
	store    port.CartStore
	warnings chan PersistenceWarning
}

func NewCartService(store port.CartStore, warningBuffer int) *CartService {
	return &CartService{
		store:    store,
		warnings: make(chan PersistenceWarning, warningBuffer),
	}
}

// AddItem merges the item into the session's cart and returns the updated
// cart. It always succeeds: store failures surface only as warnings.
func (s *CartService) AddItem(ctx context.Context, sessionID string, item domain.CartItem, quantity int) domain.Cart {
	cart := s.load(ctx, sessionID, "add_item")
	cart.AddItem(item, quantity)
	s.persist(ctx, sessionID, cart, "add_item")
	return cart
}

// UpdateQuantity sets an item's quantity; zero or less removes the item,
// an unknown ID is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) domain.Cart {
	cart := s.load(ctx, sessionID, "update_quantity")
	cart.UpdateQuantity(itemID, quantity)
	s.persist(ctx, sessionID, cart, "update_quantity")
	return cart
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) domain.Cart {
	cart := s.load(ctx, sessionID, "remove_item")
	cart.RemoveItem(itemID)
	s.persist(ctx, sessionID, cart, "remove_item")
	return cart
}

// Clear empties the session's cart; used after a successful checkout.
func (s *CartService) Clear(ctx context.Context, sessionID string) domain.Cart {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.warn(sessionID, "clear", err)
	}
	return domain.Cart{}
}

// Get returns the session's current cart; an unknown session yields an
// empty cart.
func (s *CartService) Get(ctx context.Context, sessionID string) domain.Cart {
	return s.load(ctx, sessionID, "get")
}

// Warnings exposes swallowed persistence failures. The channel is
// buffered and sends are non-blocking; under a stalled reader further
// warnings are dropped.
func (s *CartService) Warnings() <-chan PersistenceWarning {
	return s.warnings
}

func (s *CartService) Close() {
	close(s.warnings)
}

func (s *CartService) load(ctx context.Context, sessionID, op string) domain.Cart {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.warn(sessionID, op, err)
		return domain.Cart{}
	}
	return cart
}

func (s *CartService) persist(ctx context.Context, sessionID string, cart domain.Cart, op string) {
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		s.warn(sessionID, op, err)
	}
}

func (s *CartService) warn(sessionID, op string, err error) {
	log.Printf("cart store failure (session=%s op=%s): %v", sessionID, op, err)
	select {
	case s.warnings <- PersistenceWarning{SessionID: sessionID, Op: op, Err: err}:
	default:
	}
}
