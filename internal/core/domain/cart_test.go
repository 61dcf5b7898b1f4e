package domain

import (
	"encoding/json"
	"testing"
)

func jollof() CartItem {
	return CartItem{
		ID:    "jollof-1",
		Name:  "Jollof Rice",
		Price: 25,
		Restaurant: Restaurant{
			ID:          "resto-1",
			Name:        "Mama's Kitchen",
			DeliveryFee: 5,
		},
	}
}

func waakye() CartItem {
	return CartItem{
		ID:    "waakye-1",
		Name:  "Waakye",
		Price: 15,
		Restaurant: Restaurant{
			ID:          "resto-1",
			Name:        "Mama's Kitchen",
			DeliveryFee: 5,
		},
	}
}

// checkInvariants verifies the derived aggregates against the stored
// items; it runs after every mutation, not just at the end.
func checkInvariants(t *testing.T, cart *Cart) {
	t.Helper()

	count := 0
	subtotal := 0.0
	for _, item := range cart.Items {
		if item.Quantity < 1 {
			t.Errorf("item %s stored with quantity %d", item.ID, item.Quantity)
		}
		count += item.Quantity
		subtotal += item.Price * float64(item.Quantity)
	}

	if cart.ItemCount() != count {
		t.Errorf("ItemCount = %d, want %d", cart.ItemCount(), count)
	}
	if cart.Subtotal() != subtotal {
		t.Errorf("Subtotal = %v, want %v", cart.Subtotal(), subtotal)
	}
	if cart.Total() != cart.Subtotal()+cart.DeliveryFee() {
		t.Errorf("Total = %v, want subtotal %v + fee %v", cart.Total(), cart.Subtotal(), cart.DeliveryFee())
	}

	seen := map[string]bool{}
	for _, item := range cart.Items {
		if seen[item.ID] {
			t.Errorf("duplicate item id %s", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestAddItem_MergesOnSameID(t *testing.T) {
	var cart Cart

	cart.AddItem(jollof(), 2)
	checkInvariants(t, &cart)
	cart.AddItem(jollof(), 3)
	checkInvariants(t, &cart)

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItem_CoercesNonPositiveQuantity(t *testing.T) {
	var cart Cart

	cart.AddItem(jollof(), 0)
	checkInvariants(t, &cart)

	if cart.ItemCount() != 1 {
		t.Errorf("expected quantity coerced to 1, got count %d", cart.ItemCount())
	}
}

func TestUpdateQuantity_RemovesAtZeroOrBelow(t *testing.T) {
	for _, quantity := range []int{0, -5} {
		var cart Cart
		cart.AddItem(jollof(), 2)

		cart.UpdateQuantity("jollof-1", quantity)
		checkInvariants(t, &cart)

		if len(cart.Items) != 0 {
			t.Errorf("UpdateQuantity(_, %d): item still present", quantity)
		}
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	var cart Cart
	cart.AddItem(jollof(), 2)

	cart.UpdateQuantity("missing", 7)
	checkInvariants(t, &cart)

	if cart.ItemCount() != 2 {
		t.Errorf("expected count 2, got %d", cart.ItemCount())
	}
}

func TestRemoveItem(t *testing.T) {
	var cart Cart
	cart.AddItem(jollof(), 1)
	cart.AddItem(waakye(), 2)

	cart.RemoveItem("jollof-1")
	checkInvariants(t, &cart)

	if len(cart.Items) != 1 || cart.Items[0].ID != "waakye-1" {
		t.Errorf("unexpected items after remove: %+v", cart.Items)
	}

	// removing an absent id is a no-op
	cart.RemoveItem("jollof-1")
	checkInvariants(t, &cart)
	if len(cart.Items) != 1 {
		t.Errorf("no-op remove changed the cart: %+v", cart.Items)
	}
}

func TestDerivedTotals(t *testing.T) {
	var cart Cart

	if cart.DeliveryFee() != 0 || cart.Total() != 0 {
		t.Errorf("empty cart should have zero fee and total")
	}

	cart.AddItem(jollof(), 2)
	cart.AddItem(waakye(), 1)
	checkInvariants(t, &cart)

	if cart.Subtotal() != 65 {
		t.Errorf("Subtotal = %v, want 65", cart.Subtotal())
	}
	if cart.DeliveryFee() != 5 {
		t.Errorf("DeliveryFee = %v, want 5", cart.DeliveryFee())
	}
	if cart.Total() != 70 {
		t.Errorf("Total = %v, want 70", cart.Total())
	}
}

// The derived reads take value receivers so they can be called directly
// on a function's return value, the way the cart service hands carts out.
func TestDerivedTotals_OnReturnedValue(t *testing.T) {
	build := func() Cart {
		var cart Cart
		cart.AddItem(jollof(), 2)
		cart.AddItem(waakye(), 1)
		return cart
	}

	if got := build().ItemCount(); got != 3 {
		t.Errorf("ItemCount = %d, want 3", got)
	}
	if got := build().Subtotal(); got != 65 {
		t.Errorf("Subtotal = %v, want 65", got)
	}
	if got := build().Total(); got != 70 {
		t.Errorf("Total = %v, want 70", got)
	}
	if got := build().Snapshot(); len(got) != 2 {
		t.Errorf("Snapshot lines = %d, want 2", len(got))
	}
}

func TestClear(t *testing.T) {
	var cart Cart
	cart.AddItem(jollof(), 3)

	cart.Clear()
	checkInvariants(t, &cart)

	if cart.ItemCount() != 0 || cart.Total() != 0 {
		t.Errorf("cart not empty after clear")
	}
}

func TestCart_JSONRoundTrip(t *testing.T) {
	var cart Cart
	cart.AddItem(jollof(), 2)
	cart.AddItem(waakye(), 1)

	data, err := json.Marshal(cart)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var reloaded Cart
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(reloaded.Items) != len(cart.Items) {
		t.Fatalf("expected %d items, got %d", len(cart.Items), len(reloaded.Items))
	}
	for i := range cart.Items {
		if reloaded.Items[i] != cart.Items[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, reloaded.Items[i], cart.Items[i])
		}
	}
	if reloaded.ItemCount() != cart.ItemCount() || reloaded.Subtotal() != cart.Subtotal() || reloaded.Total() != cart.Total() {
		t.Error("derived totals differ after round trip")
	}
}

func TestSnapshot_ComputesLineTotals(t *testing.T) {
	var cart Cart
	cart.AddItem(jollof(), 2)
	cart.AddItem(waakye(), 1)

	items := cart.Snapshot()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Total != 50 {
		t.Errorf("line 0 total = %v, want 50", items[0].Total)
	}
	if items[1].Total != 15 {
		t.Errorf("line 1 total = %v, want 15", items[1].Total)
	}
}
