package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/Dee-Rock/soucey/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func sampleCart() domain.Cart {
	var cart domain.Cart
	cart.AddItem(domain.CartItem{
		ID:    "jollof-1",
		Name:  "Jollof Rice",
		Price: 25,
		Restaurant: domain.Restaurant{
			ID:          "resto-1",
			Name:        "Mama's Kitchen",
			DeliveryFee: 5,
		},
	}, 2)
	cart.AddItem(domain.CartItem{
		ID:    "waakye-1",
		Name:  "Waakye",
		Price: 15,
		Restaurant: domain.Restaurant{
			ID:          "resto-1",
			Name:        "Mama's Kitchen",
			DeliveryFee: 5,
		},
	}, 1)
	return cart
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "cart:test-session")

	cart := sampleCart()
	if err := adapter.Save(ctx, "test-session", cart); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := adapter.Load(ctx, "test-session")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loaded.Items))
	}
	if loaded.ItemCount() != cart.ItemCount() {
		t.Errorf("item count differs: %d vs %d", loaded.ItemCount(), cart.ItemCount())
	}
	if loaded.Subtotal() != cart.Subtotal() {
		t.Errorf("subtotal differs: %v vs %v", loaded.Subtotal(), cart.Subtotal())
	}
	if loaded.Total() != cart.Total() {
		t.Errorf("total differs: %v vs %v", loaded.Total(), cart.Total())
	}

	// Cleanup
	client.Del(ctx, "cart:test-session")
}

func TestLoad_UnknownSession(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, "cart:unknown-session")

	cart, err := adapter.Load(ctx, "unknown-session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestDelete_RemovesCart(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	if err := adapter.Save(ctx, "delete-session", sampleCart()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := adapter.Delete(ctx, "delete-session"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	cart, err := adapter.Load(ctx, "delete-session")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("cart still present after delete")
	}
}

func TestSave_SetsExpiry(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	if err := adapter.Save(ctx, "ttl-session", sampleCart()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ttl, err := client.TTL(ctx, "cart:ttl-session").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 {
		t.Errorf("expected a positive TTL, got %v", ttl)
	}

	client.Del(ctx, "cart:ttl-session")
}
