package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Cart : un seul panier par utilisateur, créé à la demande.
type Cart struct {
	ID     gocql.UUID `json:"id"`
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem : une ligne par (panier, produit). Les champs Name/Price/Stock
// sont le snapshot produit courant joint au chargement, pas des colonnes
// de la table cart_items.
type CartItem struct {
	ProductID gocql.UUID `json:"product_id"`
	Quantity  int        `json:"quantity"`
	AddedAt   time.Time  `json:"added_at"`
	Name      string     `json:"name,omitempty"`
	Price     float64    `json:"price,omitempty"`
	Stock     int        `json:"stock,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
}
