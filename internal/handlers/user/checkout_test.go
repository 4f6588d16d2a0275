package user

import (
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"tienda_back_end/internal/models"
)

// fakeOrderWriter enregistre les écritures du checkout en mémoire.
type fakeOrderWriter struct {
	orders          []models.Order
	summaries       []models.Order
	items           []models.OrderItem
	deletedProducts []gocql.UUID
	failItemInsert  bool
}

func (f *fakeOrderWriter) InsertOrder(order models.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderWriter) InsertOrderSummary(order models.Order) error {
	f.summaries = append(f.summaries, order)
	return nil
}

func (f *fakeOrderWriter) InsertOrderItem(orderID gocql.UUID, item models.OrderItem) error {
	if f.failItemInsert {
		return errors.New("write timeout")
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeOrderWriter) DeleteCartItem(cartID, productID gocql.UUID) error {
	f.deletedProducts = append(f.deletedProducts, productID)
	return nil
}

func twoItemCart() *models.Cart {
	return &models.Cart{
		ID:     gocql.TimeUUID(),
		UserID: "11111111-2222-3333-4444-555555555555",
		Items: []models.CartItem{
			{ProductID: gocql.TimeUUID(), Name: "Clavier", Price: 9.99, Quantity: 2},
			{ProductID: gocql.TimeUUID(), Name: "Souris", Price: 5.00, Quantity: 1},
		},
	}
}

func TestPlaceOrderWritesHeaderItemsAndClearsCart(t *testing.T) {
	w := &fakeOrderWriter{}
	cart := twoItemCart()

	order, err := placeOrder(w, cart)

	assert.NoError(t, err)

	// Un seul en-tête, payé d'emblée, adresse simulée, total 24.98
	assert.Len(t, w.orders, 1)
	assert.Len(t, w.summaries, 1)
	assert.InDelta(t, 24.98, order.Total, 0.0001)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, simulatedShippingAddress, order.ShippingAddress)
	assert.Equal(t, cart.UserID, order.UserID)

	// Une ligne par produit, avec le snapshot nom/prix du panier
	assert.Len(t, w.items, 2)
	assert.Equal(t, "Clavier", w.items[0].ProductName)
	assert.InDelta(t, 9.99, w.items[0].UnitPrice, 0.0001)
	assert.Equal(t, 2, w.items[0].Quantity)
	assert.Equal(t, "Souris", w.items[1].ProductName)
	assert.InDelta(t, 5.00, w.items[1].UnitPrice, 0.0001)

	// Le nettoyage vise exactement les produits facturés
	assert.ElementsMatch(t, w.deletedProducts,
		[]gocql.UUID{cart.Items[0].ProductID, cart.Items[1].ProductID})
}

func TestPlaceOrderKeepsHeaderWhenItemInsertFails(t *testing.T) {
	// Pas de rollback : l'échec des lignes laisse l'en-tête en base et
	// le panier intact
	w := &fakeOrderWriter{failItemInsert: true}
	cart := twoItemCart()

	_, err := placeOrder(w, cart)

	assert.Error(t, err)
	assert.Len(t, w.orders, 1)
	assert.Len(t, w.summaries, 1)
	assert.Empty(t, w.items)
	assert.Empty(t, w.deletedProducts)
}

func TestCalcTotal(t *testing.T) {
	items := []models.CartItem{
		{Price: 9.99, Quantity: 2},
		{Price: 5.00, Quantity: 1},
	}
	assert.InDelta(t, 24.98, calcTotal(items), 0.0001)
}

func TestCalcTotalEmptyCart(t *testing.T) {
	assert.Equal(t, 0.0, calcTotal(nil))
	assert.Equal(t, 0.0, calcTotal([]models.CartItem{}))
}

func TestCalcTotalIgnoresSnapshotlessFields(t *testing.T) {
	// Seuls le prix et la quantité comptent, pas le stock ni le nom
	items := []models.CartItem{
		{Name: "Clavier", Price: 49.90, Quantity: 1, Stock: 0},
	}
	assert.InDelta(t, 49.90, calcTotal(items), 0.0001)
}
