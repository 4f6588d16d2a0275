package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statut unique : le paiement est simulé, il n'existe pas de machine à
// états pending/failed.
const OrderStatusPaid = "paid"

type Order struct {
	ID              gocql.UUID  `json:"id"`
	UserID          string      `json:"user_id"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem : snapshot du produit au moment de l'achat. Les éditions
// ultérieures du produit ne touchent jamais ces lignes.
type OrderItem struct {
	ID          gocql.UUID `json:"id"`
	ProductID   gocql.UUID `json:"product_id"`
	ProductName string     `json:"product_name"`
	UnitPrice   float64    `json:"unit_price"`
	Quantity    int        `json:"quantity"`
}

// OrderSummary : ligne du listing historique (table orders_by_user).
type OrderSummary struct {
	ID        gocql.UUID `json:"id"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
