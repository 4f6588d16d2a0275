package product

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
	"tienda_back_end/internal/services"
)

// Taille de page du catalogue (pagination simulée du front)
const catalogPageSize = 12

//
// 🔎 GET /api/products?q=&category=
//
func GetCatalog(c *gin.Context) {
	search := strings.TrimSpace(c.Query("q"))

	var categoryID *gocql.UUID
	if raw := c.Query("category"); raw != "" {
		catUUID, err := gocql.ParseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
			return
		}
		categoryID = &catUUID
	}

	ctx := context.Background()

	// ✅ Page d'accueil sans filtre : cache Redis
	cacheKey := "catalog:active"
	if search == "" && categoryID == nil {
		if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
			var cached []models.Product
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	// 🔎 1️⃣ Recherche Elasticsearch (prioritaire quand un terme est saisi)
	if search != "" {
		if ids, err := services.SearchProductIDs(search); err == nil {
			products, loadErr := loadProductsByIDs(ids, categoryID)
			if loadErr == nil {
				c.JSON(http.StatusOK, products)
				return
			}
		}
	}

	// 🔁 2️⃣ Fallback ScyllaDB : scan + filtre en mémoire
	// (pas de LIKE natif côté Scylla ; acceptable pour un catalogue court)
	products, err := scanCatalog(search, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	if search == "" && categoryID == nil {
		if data, err := json.Marshal(products); err == nil {
			database.RedisClient.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}

	c.JSON(http.StatusOK, products)
}

//
// 🛍️ GET /api/products/:id
//
func GetProductByID(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p, err := scanProduct(session, productUUID)

	// Produit absent et produit désactivé : même réponse
	if err != nil || !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable ou inactif"})
		return
	}

	p.ImageURL = services.GetPublicURL(p.ImagePath)
	c.JSON(http.StatusOK, p)
}

// ================== LECTURE SCYLLA ==================

func scanProduct(session *gocql.Session, productUUID gocql.UUID) (models.Product, error) {
	var p models.Product
	p.ID = productUUID
	err := session.Query(
		`SELECT name, description, price, stock, category_id, image_path, is_active, created_at, updated_at
		 FROM products WHERE product_id = ?`, productUUID,
	).Scan(&p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// loadProductsByIDs recharge depuis ScyllaDB les produits trouvés par
// Elasticsearch (source de vérité pour prix et stock), puis applique
// les mêmes règles que le fallback.
func loadProductsByIDs(ids []string, categoryID *gocql.UUID) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	for _, id := range ids {
		productUUID, err := gocql.ParseUUID(id)
		if err != nil {
			continue
		}
		p, err := scanProduct(session, productUUID)
		if err != nil {
			continue // désindexation en retard sur la base
		}
		if !matchesCatalogFilter(p, "", categoryID) {
			continue
		}
		p.ImageURL = services.GetPublicURL(p.ImagePath)
		products = append(products, p)
	}

	sortProductsByName(products)
	return limitCatalog(products), nil
}

func scanCatalog(search string, categoryID *gocql.UUID) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT product_id, name, description, price, stock, category_id, image_path, is_active, created_at, updated_at
		 FROM products`,
	).Iter()

	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if matchesCatalogFilter(p, search, categoryID) {
			p.ImageURL = services.GetPublicURL(p.ImagePath)
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sortProductsByName(products)
	return limitCatalog(products), nil
}

// ================== FILTRES ==================

// matchesCatalogFilter : jamais de produit inactif dans le catalogue,
// quel que soit le couple recherche/catégorie
func matchesCatalogFilter(p models.Product, search string, categoryID *gocql.UUID) bool {
	if !p.IsActive {
		return false
	}
	if search != "" && !containsIgnoreCase(p.Name, search) {
		return false
	}
	if categoryID != nil && p.CategoryID != *categoryID {
		return false
	}
	return true
}

// Helper pour recherche insensible à la casse
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortProductsByName(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
}

func limitCatalog(products []models.Product) []models.Product {
	if len(products) > catalogPageSize {
		return products[:catalogPageSize]
	}
	return products
}
