package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
	"tienda_back_end/internal/services"
	"tienda_back_end/internal/utils"
)

//
// 📋 GET /api/admin/products — tous les produits, actifs ou non
//
func GetAllProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(
		`SELECT product_id, name, description, price, stock, category_id, image_path, is_active, created_at, updated_at
		 FROM products`,
	).Iter()

	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		p.ImageURL = services.GetPublicURL(p.ImagePath)
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

//
// ➕ POST /api/admin/products (multipart/form-data)
//
func CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	priceRaw := c.PostForm("price")
	stockRaw := c.PostForm("stock")
	categoryRaw := c.PostForm("category_id")

	price, errPrice := strconv.ParseFloat(priceRaw, 64)
	stock, errStock := strconv.Atoi(stockRaw)
	if errPrice != nil || errStock != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix ou stock invalide"})
		return
	}

	// ✅ Validation AVANT tout appel réseau (upload compris)
	if msg := validateNewProduct(name, price, stock); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var categoryID gocql.UUID
	if categoryRaw != "" {
		parsed, err := gocql.ParseUUID(categoryRaw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
			return
		}
		categoryID = parsed
	}

	// 📤 Upload image optionnel — d'abord MinIO, ensuite la base
	imagePath := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		uploaded, err := services.UploadProductImage(context.Background(), file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
			return
		}
		imagePath = uploaded
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	product := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
		ImagePath:   imagePath,
		IsActive:    true,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	if err := session.Query(
		`INSERT INTO products (product_id, name, description, price, stock, category_id, image_path, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.CategoryID, product.ImagePath, product.IsActive, now, now,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	invalidateCatalogCache()
	go services.IndexProduct(product)
	utils.LogAction(c, utils.AuditActionCreate, "product", product.ID.String(), nil, product)

	product.ImageURL = services.GetPublicURL(product.ImagePath)
	log.Printf("✅ Produit créé: %s (%s)", product.Name, product.ID)
	c.JSON(http.StatusCreated, product)
}

//
// ✏️ PUT /api/admin/products/:id — mise à jour partielle
//
func UpdateProduct(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
		CategoryID  *string  `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}

	// Mêmes règles qu'à la création, champ par champ
	if input.Name != nil && len(strings.TrimSpace(*input.Name)) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom doit contenir au moins 3 caractères"})
		return
	}
	if input.Price != nil && *input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être strictement positif"})
		return
	}
	if input.Stock != nil && *input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
		return
	}

	setClauses := []string{}
	args := []interface{}{}

	if input.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, strings.TrimSpace(*input.Name))
	}
	if input.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *input.Description)
	}
	if input.Price != nil {
		setClauses = append(setClauses, "price = ?")
		args = append(args, *input.Price)
	}
	if input.Stock != nil {
		setClauses = append(setClauses, "stock = ?")
		args = append(args, *input.Stock)
	}
	if input.CategoryID != nil {
		catUUID, err := gocql.ParseUUID(*input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
			return
		}
		setClauses = append(setClauses, "category_id = ?")
		args = append(args, catUUID)
	}

	if len(setClauses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun champ à mettre à jour"})
		return
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, productUUID)

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	query := "UPDATE products SET " + strings.Join(setClauses, ", ") + " WHERE product_id = ?"
	if err := session.Query(query, args...).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	updated, err := reloadProduct(session, productUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	invalidateCatalogCache()
	go services.IndexProduct(updated)
	utils.LogAction(c, utils.AuditActionUpdate, "product", productUUID.String(), nil, updated)

	c.JSON(http.StatusOK, updated)
}

//
// 🔄 PATCH /api/admin/products/:id/active — jamais de DELETE produit
//
func SetProductActive(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ is_active requis"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(
		`UPDATE products SET is_active = ?, updated_at = ? WHERE product_id = ?`,
		*input.IsActive, time.Now(), productUUID,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	updated, err := reloadProduct(session, productUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	invalidateCatalogCache()
	go services.IndexProduct(updated)

	action := utils.AuditActionDeactivate
	if *input.IsActive {
		action = utils.AuditActionActivate
	}
	utils.LogAction(c, action, "product", productUUID.String(), nil, gin.H{"is_active": *input.IsActive})

	c.JSON(http.StatusOK, updated)
}

// ================== HELPERS ==================

// validateNewProduct renvoie le message d'erreur, ou "" si valide
func validateNewProduct(name string, price float64, stock int) string {
	if len(strings.TrimSpace(name)) < 3 {
		return "Le nom doit contenir au moins 3 caractères"
	}
	if price <= 0 {
		return "Le prix doit être strictement positif"
	}
	if stock < 0 {
		return "Le stock ne peut pas être négatif"
	}
	return ""
}

func reloadProduct(session *gocql.Session, productUUID gocql.UUID) (models.Product, error) {
	var p models.Product
	p.ID = productUUID
	err := session.Query(
		`SELECT name, description, price, stock, category_id, image_path, is_active, created_at, updated_at
		 FROM products WHERE product_id = ?`, productUUID,
	).Scan(&p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == nil {
		p.ImageURL = services.GetPublicURL(p.ImagePath)
	}
	return p, err
}

// invalidateCatalogCache purge les clés Redis du catalogue public
func invalidateCatalogCache() {
	if database.RedisClient == nil {
		return
	}
	ctx := context.Background()
	if err := database.RedisClient.Del(ctx, "catalog:active", "categories:all").Err(); err != nil {
		log.Printf("⚠️ Impossible d'invalider le cache catalogue: %v", err)
	}
}
