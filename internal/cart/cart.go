// Package cart implements the client-held shopping cart: an ordered
// collection of product snapshots with quantities. Product data is frozen at
// add time, so totals stay stable and computable offline; stock checks here
// are advisory against that snapshot and must be re-validated server-side at
// order placement.
package cart

import (
	"fmt"

	"isoko/internal/models"
)

// Item is one cart line: a frozen product snapshot plus a quantity.
type Item struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// StockExceededError reports a mutation that would push a line's quantity
// past the snapshot's stock. The operation is fully rejected; Available lets
// the caller adjust its request.
type StockExceededError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("only %d of product %s available (requested %d)", e.Available, e.ProductID, e.Requested)
}

// ErrInvalidQuantity rejects add requests for less than one unit.
type ErrInvalidQuantity struct {
	Quantity int
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("quantity must be at least 1, got %d", e.Quantity)
}

// Cart is the pure aggregate. It carries no persistence dependency; wrap it
// in a Session for durable storage. It is owned by a single client session
// and is not safe for concurrent use.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from previously persisted lines.
func Restore(items []Item) *Cart {
	c := &Cart{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// AddItem adds qty units of the product, merging with an existing line for
// the same product id. When the new line total would exceed the snapshot's
// stock the whole operation fails and the cart is left unchanged.
func (c *Cart) AddItem(product models.Product, qty int) error {
	if qty < 1 {
		return &ErrInvalidQuantity{Quantity: qty}
	}

	if i, ok := c.find(product.ID); ok {
		newQuantity := c.items[i].Quantity + qty
		if newQuantity > product.Stock {
			return &StockExceededError{ProductID: product.ID, Requested: newQuantity, Available: product.Stock}
		}
		c.items[i].Quantity = newQuantity
		return nil
	}

	if qty > product.Stock {
		return &StockExceededError{ProductID: product.ID, Requested: qty, Available: product.Stock}
	}
	c.items = append(c.items, Item{Product: product, Quantity: qty})
	return nil
}

// RemoveItem deletes the line for the product id. It reports whether a
// removal actually happened; removing an absent id is not an error.
func (c *Cart) RemoveItem(productID string) bool {
	i, ok := c.find(productID)
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// UpdateQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line; an absent id is a no-op; exceeding the frozen snapshot's
// stock fails and leaves the quantity unchanged.
func (c *Cart) UpdateQuantity(productID string, qty int) error {
	i, ok := c.find(productID)
	if !ok {
		return nil
	}
	if qty <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	if qty > c.items[i].Product.Stock {
		return &StockExceededError{ProductID: productID, Requested: qty, Available: c.items[i].Product.Stock}
	}
	c.items[i].Quantity = qty
	return nil
}

// ClearCart empties the collection.
func (c *Cart) ClearCart() {
	c.items = nil
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.items {
		total += c.items[i].Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity across all lines, using
// each line's frozen snapshot price.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for i := range c.items {
		total += c.items[i].Product.Price * float64(c.items[i].Quantity)
	}
	return total
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the line for a product id, if present.
func (c *Cart) Get(productID string) (Item, bool) {
	if i, ok := c.find(productID); ok {
		return c.items[i], true
	}
	return Item{}, false
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) find(productID string) (int, bool) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i, true
		}
	}
	return 0, false
}
