package utils

import (
	"strings"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"tienda_back_end/internal/models"
)

func TestGenerateOrderConfirmationHTML(t *testing.T) {
	order := models.Order{
		ID:              gocql.TimeUUID(),
		Total:           24.98,
		ShippingAddress: "Simulada: Calle Falsa 123",
		Status:          models.OrderStatusPaid,
		Items: []models.OrderItem{
			{ProductName: "Clavier", UnitPrice: 9.99, Quantity: 2},
			{ProductName: "Souris", UnitPrice: 5.00, Quantity: 1},
		},
	}

	html := GenerateOrderConfirmationHTML(order, "")

	// Lignes issues du snapshot de la commande
	assert.Contains(t, html, "Clavier")
	assert.Contains(t, html, "Souris")
	assert.Contains(t, html, "9.99€")
	assert.Contains(t, html, "24.98€")
	assert.Contains(t, html, order.ID.String())
	assert.Contains(t, html, "Simulada: Calle Falsa 123")

	// Pas de QR sans référence
	assert.NotContains(t, html, "<img")
}

func TestGenerateOrderConfirmationHTMLWithQR(t *testing.T) {
	order := models.Order{ID: gocql.TimeUUID(), Status: models.OrderStatusPaid}

	html := GenerateOrderConfirmationHTML(order, "data:image/png;base64,AAAA")

	assert.Contains(t, html, `<img src="data:image/png;base64,AAAA"`)
}

func TestGeneratePaymentReferenceQR(t *testing.T) {
	order := models.Order{ID: gocql.TimeUUID(), Total: 24.98, Status: models.OrderStatusPaid}

	qr, err := GeneratePaymentReferenceQR(order)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}
