package cart

import "isoko/internal/models"

// Session composes the pure aggregate with a durable store. Persistence is a
// side effect of each successful mutation; failed mutations leave the stored
// state untouched.
type Session struct {
	cart  *Cart
	store Store
}

// OpenSession loads the persisted cart from the store.
func OpenSession(store Store) (*Session, error) {
	items, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{cart: Restore(items), store: store}, nil
}

// AddItem adds to the cart and persists on success.
func (s *Session) AddItem(product models.Product, qty int) error {
	if err := s.cart.AddItem(product, qty); err != nil {
		return err
	}
	return s.store.Save(s.cart.Items())
}

// RemoveItem removes a line and persists when a removal happened.
func (s *Session) RemoveItem(productID string) (bool, error) {
	removed := s.cart.RemoveItem(productID)
	if !removed {
		return false, nil
	}
	return true, s.store.Save(s.cart.Items())
}

// UpdateQuantity sets a line's quantity and persists on success.
func (s *Session) UpdateQuantity(productID string, qty int) error {
	if err := s.cart.UpdateQuantity(productID, qty); err != nil {
		return err
	}
	return s.store.Save(s.cart.Items())
}

// ClearCart empties the cart and persists the empty state.
func (s *Session) ClearCart() error {
	s.cart.ClearCart()
	return s.store.Save(s.cart.Items())
}

// Cart exposes the aggregate for reads (totals, line inspection).
func (s *Session) Cart() *Cart {
	return s.cart
}
