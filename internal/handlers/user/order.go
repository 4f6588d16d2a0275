package user

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
)

// ✅ Récupère toutes les commandes de l'utilisateur connecté
// GET /api/orders
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// orders_by_user clusterise par created_at DESC : plus récent d'abord
	iter := ordersSession.Query(
		`SELECT order_id, total, status, created_at FROM orders_by_user WHERE user_id = ?`,
		userID,
	).Iter()

	var orders []models.OrderSummary
	var o models.OrderSummary
	for iter.Scan(&o.ID, &o.Total, &o.Status, &o.CreatedAt) {
		orders = append(orders, o)
		o = models.OrderSummary{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	log.Printf("✅ %d commandes trouvées pour user %s", len(orders), userID)

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// ✅ Récupère une commande spécifique par ID
// GET /api/orders/:id
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var order models.Order
	order.ID = orderUUID
	err = ordersSession.Query(
		`SELECT user_id, total, shipping_address, status, created_at FROM orders WHERE order_id = ?`,
		orderUUID,
	).Scan(&order.UserID, &order.Total, &order.ShippingAddress, &order.Status, &order.CreatedAt)

	// ✅ Sécurité : commande absente et commande d'un autre utilisateur
	// produisent la même réponse
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	iter := ordersSession.Query(
		`SELECT item_id, product_id, product_name, unit_price, quantity FROM order_items WHERE order_id = ?`,
		orderUUID,
	).Iter()

	var item models.OrderItem
	for iter.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity) {
		order.Items = append(order.Items, item)
		item = models.OrderItem{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de commande"})
		return
	}

	c.JSON(http.StatusOK, order)
}
