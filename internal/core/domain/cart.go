package domain

// Restaurant is the minimal restaurant view a cart item carries. Every
// item in a non-empty cart is assumed to come from the same restaurant;
// delivery-fee computation relies on that.
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DeliveryFee float64 `json:"deliveryFee"`
}

type CartItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Price      float64    `json:"price"`
	Quantity   int        `json:"quantity"`
	Restaurant Restaurant `json:"restaurant"`
	Image      string     `json:"image,omitempty"`
}

// Cart holds the items a customer intends to purchase, keyed by item ID.
// Quantities are always >= 1: an update that would drive a quantity to
// zero removes the item instead. Totals are derived on every read and
// never stored, so they cannot drift from Items.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddItem merges on item ID: an existing entry has its quantity
// incremented, otherwise the item is appended. Quantities below 1 are
// coerced to 1.
func (c *Cart) AddItem(item CartItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	item.Quantity = quantity
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity for the given item ID; a quantity of
// zero or less removes the item. An absent ID is a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the entry with the given ID; absent IDs are a no-op.
func (c *Cart) RemoveItem(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) Subtotal() float64 {
	subtotal := 0.0
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// DeliveryFee is the fee of the single restaurant represented in the
// cart, or 0 when the cart is empty.
func (c Cart) DeliveryFee() float64 {
	if len(c.Items) == 0 {
		return 0
	}
	return c.Items[0].Restaurant.DeliveryFee
}

func (c Cart) Total() float64 {
	return c.Subtotal() + c.DeliveryFee()
}

// Snapshot captures the cart as order lines, with per-line totals
// computed from the captured price and quantity.
func (c Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Total:    item.Price * float64(item.Quantity),
			Image:    item.Image,
		})
	}
	return items
}
