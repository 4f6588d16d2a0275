package user

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
	"tienda_back_end/internal/services"
)

// Nombre d'essais du merge compare-and-set avant d'abandonner
const cartCASMaxRetries = 3

var errConcurrentCartUpdate = errors.New("conflit d'écriture concurrent sur le panier")

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

//
// 🟢 POST /api/cart/items
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	productUUID, err := gocql.ParseUUID(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	// 🧩 Le produit doit exister et être actif
	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var isActive bool
	if err := productsSession.Query(
		`SELECT is_active FROM products WHERE product_id = ?`, productUUID,
	).Scan(&isActive); err != nil || !isActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// 🔁 Merge par produit : deux addItem concurrents sur le même produit
	// finissent à q1+q2, jamais à une mise à jour perdue
	if err := mergeCartItem(scyllaCartItems{ordersSession}, cart.ID, productUUID, input.Quantity); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Panier en cours de modification, réessayez"})
		return
	}

	// 💾 Rechargement complet : l'état affiché vient toujours de la base
	cart, err = getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur rechargement panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"cart":    cart,
	})
}

//
// ❌ DELETE /api/cart/items/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productUUID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Le cart_id vient de l'utilisateur authentifié : impossible de
	// supprimer une ligne d'un autre panier. Suppression idempotente.
	if err := (scyllaCartItems{ordersSession}).Delete(cart.ID, productUUID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}

	cart, err = getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur rechargement panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"cart":    cart,
	})
}

//
// 🧹 DELETE /api/cart
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := ordersSession.Query(
		`DELETE FROM cart_items WHERE cart_id = ?`, cart.ID,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}

// ================== LOGIQUE PANIER ==================

// getOrCreateCart charge le panier de l'utilisateur, le crée au premier
// accès (LWT : jamais deux paniers pour un même user_id), puis joint le
// snapshot produit courant à chaque ligne.
func getOrCreateCart(userID string) (*models.Cart, error) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var cartID gocql.UUID
	err = database.GetPreparedGetCartByUser().Bind(userID).Scan(&cartID)
	if err == gocql.ErrNotFound {
		cartID = gocql.TimeUUID()
		applied, casErr := ordersSession.Query(
			`INSERT INTO carts (user_id, cart_id, created_at) VALUES (?, ?, ?) IF NOT EXISTS`,
			userID, cartID, time.Now(),
		).MapScanCAS(map[string]interface{}{})
		if casErr != nil {
			return nil, casErr
		}
		if !applied {
			// Créé par un appel concurrent : relire l'existant
			if err := database.GetPreparedGetCartByUser().Bind(userID).Scan(&cartID); err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	items, err := loadCartItems(cartID)
	if err != nil {
		return nil, err
	}

	return &models.Cart{ID: cartID, UserID: userID, Items: items}, nil
}

// loadCartItems lit les lignes puis joint les infos produit actuelles
// (nom, prix, stock) — le prix affiché suit toujours le catalogue.
func loadCartItems(cartID gocql.UUID) ([]models.CartItem, error) {
	iter := database.GetPreparedGetCartItems().Bind(cartID).Iter()

	var items []models.CartItem
	var item models.CartItem
	for iter.Scan(&item.ProductID, &item.Quantity, &item.AddedAt) {
		items = append(items, item)
		item = models.CartItem{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	productsSession, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	if err := joinProductSnapshots(items, func(productID gocql.UUID) (models.Product, error) {
		var p models.Product
		err := productsSession.Query(
			`SELECT name, price, stock, image_path FROM products WHERE product_id = ?`,
			productID,
		).Scan(&p.Name, &p.Price, &p.Stock, &p.ImagePath)
		return p, err
	}); err != nil {
		return nil, err
	}

	sortItemsByCreation(items)
	return items, nil
}

// productSnapshotFn retourne l'état catalogue courant d'un produit.
type productSnapshotFn func(productID gocql.UUID) (models.Product, error)

// joinProductSnapshots remplit nom/prix/stock de chaque ligne. Un produit
// absent laisse la ligne sans snapshot (les produits ne sont jamais
// supprimés) ; toute autre erreur interrompt le chargement — sinon un
// incident passager laisserait des prix à zéro partir en commande.
func joinProductSnapshots(items []models.CartItem, lookup productSnapshotFn) error {
	for i := range items {
		p, err := lookup(items[i].ProductID)
		if err == gocql.ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		items[i].Name = p.Name
		items[i].Price = p.Price
		items[i].Stock = p.Stock
		items[i].ImageURL = services.GetPublicURL(p.ImagePath)
	}
	return nil
}

// sortItemsByCreation ordonne les lignes par date d'ajout (la clé de
// clustering est product_id, l'ordre d'insertion se retrouve en mémoire)
func sortItemsByCreation(items []models.CartItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
}

// cartItemStore couvre les opérations ligne-par-ligne sur cart_items.
type cartItemStore interface {
	Quantity(cartID, productID gocql.UUID) (int, error)
	InsertIfAbsent(cartID, productID gocql.UUID, quantity int, addedAt time.Time) (bool, error)
	CompareAndSwapQuantity(cartID, productID gocql.UUID, next, expected int) (bool, error)
	Delete(cartID, productID gocql.UUID) error
}

// scyllaCartItems implémente cartItemStore sur la session orders.
type scyllaCartItems struct {
	session *gocql.Session
}

func (s scyllaCartItems) Quantity(cartID, productID gocql.UUID) (int, error) {
	var current int
	err := s.session.Query(
		`SELECT quantity FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID,
	).Scan(&current)
	return current, err
}

func (s scyllaCartItems) InsertIfAbsent(cartID, productID gocql.UUID, quantity int, addedAt time.Time) (bool, error) {
	return s.session.Query(
		`INSERT INTO cart_items (cart_id, product_id, quantity, added_at) VALUES (?, ?, ?, ?) IF NOT EXISTS`,
		cartID, productID, quantity, addedAt,
	).MapScanCAS(map[string]interface{}{})
}

func (s scyllaCartItems) CompareAndSwapQuantity(cartID, productID gocql.UUID, next, expected int) (bool, error) {
	return s.session.Query(
		`UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND product_id = ? IF quantity = ?`,
		next, cartID, productID, expected,
	).MapScanCAS(map[string]interface{}{})
}

func (s scyllaCartItems) Delete(cartID, productID gocql.UUID) error {
	return s.session.Query(
		`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID,
	).Exec()
}

// mergeCartItem fait l'upsert-avec-incrément atomique d'une ligne :
// INSERT IF NOT EXISTS pour la première fois, sinon UPDATE conditionné
// sur la quantité lue. Boucle bornée en cas de course.
func mergeCartItem(store cartItemStore, cartID, productID gocql.UUID, quantity int) error {
	for attempt := 0; attempt < cartCASMaxRetries; attempt++ {
		current, err := store.Quantity(cartID, productID)

		if err == gocql.ErrNotFound {
			applied, casErr := store.InsertIfAbsent(cartID, productID, quantity, time.Now())
			if casErr != nil {
				return casErr
			}
			if applied {
				return nil
			}
			continue // ligne créée entre-temps, on repart sur l'UPDATE
		}
		if err != nil {
			return err
		}

		applied, casErr := store.CompareAndSwapQuantity(cartID, productID, current+quantity, current)
		if casErr != nil {
			return casErr
		}
		if applied {
			return nil
		}
	}

	return errConcurrentCartUpdate
}
