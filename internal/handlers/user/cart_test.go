package user

import (
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"tienda_back_end/internal/models"
)

// fakeCartItems simule cart_items en mémoire, avec injection de refus
// CAS et de courses à l'insertion.
type fakeCartItems struct {
	quantities   map[gocql.UUID]int
	casRefusals  int            // UPDATE IF refusés avant de réussir
	raceQuantity int            // si > 0, le premier INSERT IF NOT EXISTS perd la course
	raced        bool
}

func newFakeCartItems() *fakeCartItems {
	return &fakeCartItems{quantities: map[gocql.UUID]int{}}
}

func (f *fakeCartItems) Quantity(cartID, productID gocql.UUID) (int, error) {
	q, ok := f.quantities[productID]
	if !ok {
		return 0, gocql.ErrNotFound
	}
	return q, nil
}

func (f *fakeCartItems) InsertIfAbsent(cartID, productID gocql.UUID, quantity int, addedAt time.Time) (bool, error) {
	if f.raceQuantity > 0 && !f.raced {
		// Une ligne apparaît entre le SELECT et l'INSERT
		f.raced = true
		f.quantities[productID] = f.raceQuantity
		return false, nil
	}
	if _, ok := f.quantities[productID]; ok {
		return false, nil
	}
	f.quantities[productID] = quantity
	return true, nil
}

func (f *fakeCartItems) CompareAndSwapQuantity(cartID, productID gocql.UUID, next, expected int) (bool, error) {
	if f.casRefusals > 0 {
		f.casRefusals--
		return false, nil
	}
	if f.quantities[productID] != expected {
		return false, nil
	}
	f.quantities[productID] = next
	return true, nil
}

func (f *fakeCartItems) Delete(cartID, productID gocql.UUID) error {
	delete(f.quantities, productID)
	return nil
}

func TestMergeCartItemCreatesLine(t *testing.T) {
	store := newFakeCartItems()
	cartID, productID := gocql.TimeUUID(), gocql.TimeUUID()

	err := mergeCartItem(store, cartID, productID, 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, store.quantities[productID])
}

func TestMergeCartItemAccumulatesQuantities(t *testing.T) {
	// Deux ajouts du même produit fusionnent en q1+q2, jamais deux lignes
	store := newFakeCartItems()
	cartID, productID := gocql.TimeUUID(), gocql.TimeUUID()

	assert.NoError(t, mergeCartItem(store, cartID, productID, 2))
	assert.NoError(t, mergeCartItem(store, cartID, productID, 3))

	assert.Equal(t, 5, store.quantities[productID])
	assert.Len(t, store.quantities, 1)
}

func TestMergeCartItemRetriesOnContention(t *testing.T) {
	store := newFakeCartItems()
	cartID, productID := gocql.TimeUUID(), gocql.TimeUUID()
	store.quantities[productID] = 1
	store.casRefusals = 1

	err := mergeCartItem(store, cartID, productID, 4)

	assert.NoError(t, err)
	assert.Equal(t, 5, store.quantities[productID])
}

func TestMergeCartItemLosesInsertRace(t *testing.T) {
	// L'INSERT perd la course : le merge repart sur l'UPDATE et
	// additionne quand même les deux quantités
	store := newFakeCartItems()
	cartID, productID := gocql.TimeUUID(), gocql.TimeUUID()
	store.raceQuantity = 7

	err := mergeCartItem(store, cartID, productID, 2)

	assert.NoError(t, err)
	assert.Equal(t, 9, store.quantities[productID])
}

func TestMergeCartItemGivesUpAfterRetries(t *testing.T) {
	store := newFakeCartItems()
	cartID, productID := gocql.TimeUUID(), gocql.TimeUUID()
	store.quantities[productID] = 1
	store.casRefusals = cartCASMaxRetries

	err := mergeCartItem(store, cartID, productID, 4)

	assert.ErrorIs(t, err, errConcurrentCartUpdate)
	assert.Equal(t, 1, store.quantities[productID])
}

func TestRemoveCartItemIdempotent(t *testing.T) {
	// Supprimer une ligne absente n'est pas une erreur
	store := newFakeCartItems()
	cartID, productID := gocql.TimeUUID(), gocql.TimeUUID()
	store.quantities[productID] = 3

	assert.NoError(t, store.Delete(cartID, productID))
	assert.NoError(t, store.Delete(cartID, productID))
	assert.Empty(t, store.quantities)
}

func TestJoinProductSnapshotsFillsItems(t *testing.T) {
	productID := gocql.TimeUUID()
	items := []models.CartItem{{ProductID: productID, Quantity: 2}}

	err := joinProductSnapshots(items, func(id gocql.UUID) (models.Product, error) {
		return models.Product{Name: "Clavier", Price: 9.99, Stock: 4}, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "Clavier", items[0].Name)
	assert.InDelta(t, 9.99, items[0].Price, 0.0001)
	assert.Equal(t, 4, items[0].Stock)
}

func TestJoinProductSnapshotsKeepsLineWhenProductMissing(t *testing.T) {
	// Produit introuvable : la ligne reste, sans snapshot
	items := []models.CartItem{{ProductID: gocql.TimeUUID(), Quantity: 1}}

	err := joinProductSnapshots(items, func(id gocql.UUID) (models.Product, error) {
		return models.Product{}, gocql.ErrNotFound
	})

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "", items[0].Name)
}

func TestJoinProductSnapshotsAbortsOnBackendError(t *testing.T) {
	// Une erreur passagère ne doit jamais laisser passer des lignes à
	// prix zéro vers le checkout : le chargement échoue entièrement
	backendDown := errors.New("no hosts available")
	items := []models.CartItem{{ProductID: gocql.TimeUUID(), Quantity: 1}}

	err := joinProductSnapshots(items, func(id gocql.UUID) (models.Product, error) {
		return models.Product{}, backendDown
	})

	assert.ErrorIs(t, err, backendDown)
}

func TestSortItemsByCreation(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.CartItem{
		{Name: "Souris", AddedAt: base.Add(2 * time.Hour)},
		{Name: "Clavier", AddedAt: base},
		{Name: "Écran", AddedAt: base.Add(time.Hour)},
	}

	sortItemsByCreation(items)

	assert.Equal(t, "Clavier", items[0].Name)
	assert.Equal(t, "Écran", items[1].Name)
	assert.Equal(t, "Souris", items[2].Name)
}

func TestSortItemsByCreationStable(t *testing.T) {
	// Même added_at : l'ordre relatif d'origine est conservé
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []models.CartItem{
		{Name: "A", AddedAt: base},
		{Name: "B", AddedAt: base},
	}

	sortItemsByCreation(items)

	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}
