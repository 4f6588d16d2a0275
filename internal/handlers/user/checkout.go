package user

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
	"tienda_back_end/internal/utils"
)

// Adresse de livraison simulée, comme le paiement
const simulatedShippingAddress = "Simulada: Calle Falsa 123"

// Checkout crée une commande complète à partir du panier.
//
// Trois écritures séquentielles sans transaction ni compensation :
// si l'insertion des lignes échoue après la création de l'en-tête, une
// commande orpheline sans lignes subsiste. C'est un manque assumé du
// système d'origine, pas un comportement à corriger silencieusement.
//
// POST /api/checkout
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	// ✅ 1. Charger le panier (lignes + snapshot produit courant)
	cart, err := getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}
	if len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ✅ 2-5. Sous-total, en-tête, lignes, nettoyage du panier
	order, err := placeOrder(scyllaOrders{ordersSession}, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande: " + err.Error()})
		return
	}

	// ✅ 6. Recharger le panier (attendu vide)
	cart, err = getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur rechargement panier"})
		return
	}

	log.Printf("💳 Commande %s créée (%.2f) pour %s", order.ID.String(), order.Total, userID)

	// 📤 Confirmation par e-mail, sans bloquer la réponse
	if email != "" {
		go func(o models.Order, to string) {
			if err := utils.SendOrderConfirmation(to, o); err != nil {
				log.Printf("⚠️ E-mail de confirmation non envoyé pour %s: %v", o.ID.String(), err)
			}
		}(order, email)
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": order.ID.String(),
		"total":    order.Total,
		"status":   order.Status,
		"cart":     cart,
	})
}

// orderWriter couvre les écritures séquentielles du checkout.
type orderWriter interface {
	InsertOrder(order models.Order) error
	InsertOrderSummary(order models.Order) error
	InsertOrderItem(orderID gocql.UUID, item models.OrderItem) error
	DeleteCartItem(cartID, productID gocql.UUID) error
}

// scyllaOrders implémente orderWriter sur la session orders.
type scyllaOrders struct {
	session *gocql.Session
}

func (s scyllaOrders) InsertOrder(order models.Order) error {
	return s.session.Query(
		`INSERT INTO orders (order_id, user_id, total, shipping_address, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Total, order.ShippingAddress, order.Status, order.CreatedAt,
	).Exec()
}

func (s scyllaOrders) InsertOrderSummary(order models.Order) error {
	return s.session.Query(
		`INSERT INTO orders_by_user (user_id, created_at, order_id, total, status)
		 VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, order.Total, order.Status,
	).Exec()
}

func (s scyllaOrders) InsertOrderItem(orderID gocql.UUID, item models.OrderItem) error {
	return s.session.Query(
		`INSERT INTO order_items (order_id, item_id, product_id, product_name, unit_price, quantity)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		orderID, item.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity,
	).Exec()
}

func (s scyllaOrders) DeleteCartItem(cartID, productID gocql.UUID) error {
	return s.session.Query(
		`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID,
	).Exec()
}

// placeOrder exécute les trois écritures du checkout dans l'ordre :
// en-tête (statut "paid" d'emblée, le paiement est un libellé, pas une
// étape), une ligne order_items par ligne du panier avec le snapshot
// nom/prix figé à cet instant, puis le vidage du panier par la liste
// explicite des produits facturés.
func placeOrder(w orderWriter, cart *models.Cart) (models.Order, error) {
	order := models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          cart.UserID,
		Total:           calcTotal(cart.Items),
		ShippingAddress: simulatedShippingAddress,
		Status:          models.OrderStatusPaid,
		CreatedAt:       time.Now(),
	}

	if err := w.InsertOrder(order); err != nil {
		return order, err
	}
	if err := w.InsertOrderSummary(order); err != nil {
		// Pas de rollback : l'en-tête déjà inséré reste en base
		return order, err
	}

	for _, item := range cart.Items {
		orderItem := models.OrderItem{
			ID:          gocql.TimeUUID(),
			ProductID:   item.ProductID,
			ProductName: item.Name,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
		}
		order.Items = append(order.Items, orderItem)

		if err := w.InsertOrderItem(order.ID, orderItem); err != nil {
			// Pas de rollback non plus : la commande partielle subsiste
			return order, err
		}
	}

	// Vidage par liste explicite : un ajout concurrent pendant le
	// checkout survit au nettoyage et reste dans le panier pour le
	// prochain passage (limitation connue)
	for _, item := range cart.Items {
		if err := w.DeleteCartItem(cart.ID, item.ProductID); err != nil {
			return order, err
		}
	}

	return order, nil
}

// calcTotal calcule le montant total d'un panier
func calcTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
