package cart_test

import (
	"errors"
	"path/filepath"
	"testing"

	"isoko/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *cart.BoltStore {
	t.Helper()
	store, err := cart.OpenBoltStore(path)
	require.NoError(t, err)
	return store
}

func TestBoltStore_LoadMissingKeyYieldsEmptyCart(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cart.db"))
	defer store.Close()

	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBoltStore_SaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")

	store := openStore(t, path)
	require.NoError(t, store.Save([]cart.Item{
		{Product: lamp(), Quantity: 2},
		{Product: kettle(), Quantity: 1},
	}))
	require.NoError(t, store.Close())

	// Reopen the same file: the lines survive the process boundary.
	store = openStore(t, path)
	defer store.Close()
	items, err := store.Load()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p-lamp", items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 12000.0, items[0].Product.Price)
}

func TestSession_PersistsAfterEachMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	store := openStore(t, path)

	session, err := cart.OpenSession(store)
	require.NoError(t, err)
	require.NoError(t, session.AddItem(lamp(), 2))
	require.NoError(t, session.UpdateQuantity("p-lamp", 3))
	require.NoError(t, store.Close())

	// A fresh session over the same file sees the mutated state.
	store = openStore(t, path)
	defer store.Close()
	session, err = cart.OpenSession(store)
	require.NoError(t, err)
	assert.Equal(t, 3, session.Cart().TotalItems())
	assert.Equal(t, 36000.0, session.Cart().TotalPrice())
}

func TestSession_FailedMutationLeavesStoredStateUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	store := openStore(t, path)

	session, err := cart.OpenSession(store)
	require.NoError(t, err)
	require.NoError(t, session.AddItem(lamp(), 3))

	// Stock ceiling rejection: nothing new may reach the store.
	err = session.AddItem(lamp(), 2)
	var stockErr *cart.StockExceededError
	require.True(t, errors.As(err, &stockErr))
	require.NoError(t, store.Close())

	store = openStore(t, path)
	defer store.Close()
	items, err := store.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestSession_ClearCartPersistsEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	store := openStore(t, path)

	session, err := cart.OpenSession(store)
	require.NoError(t, err)
	require.NoError(t, session.AddItem(kettle(), 2))
	require.NoError(t, session.ClearCart())
	require.NoError(t, store.Close())

	store = openStore(t, path)
	defer store.Close()
	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSession_RemoveItemReportsWhetherLineExisted(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cart.db"))
	defer store.Close()

	session, err := cart.OpenSession(store)
	require.NoError(t, err)
	require.NoError(t, session.AddItem(lamp(), 1))

	removed, err := session.RemoveItem("p-lamp")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = session.RemoveItem("p-lamp")
	require.NoError(t, err)
	assert.False(t, removed)
}
