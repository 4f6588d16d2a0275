package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tienda_back_end/internal/handlers/admin"
	"tienda_back_end/internal/handlers/product"
	"tienda_back_end/internal/handlers/user"
	"tienda_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(corsConfig()))

	api := r.Group("/api")

	// 🛍️ Catalogue public
	api.GET("/products", product.GetCatalog)
	api.GET("/products/:id", product.GetProductByID)
	api.GET("/categories", product.GetCategories)

	// 🔑 Authentification
	auth := api.Group("/auth")
	auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
	auth.POST("/login", middleware.LoginRateLimit(), user.Login)
	auth.GET("/:provider", user.BeginAuth)
	auth.GET("/:provider/callback", user.CallbackAuth)

	// 👤 Routes protégées
	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	{
		protected.POST("/auth/logout", user.Logout)
		protected.GET("/auth/session", user.Session)
		protected.GET("/users/me", user.GetProfile)

		protected.GET("/cart", user.GetCart)
		protected.POST("/cart/items", user.AddToCart)
		protected.DELETE("/cart/items/:productId", user.RemoveFromCart)
		protected.DELETE("/cart", user.ClearCart)

		protected.POST("/checkout", user.Checkout)
		protected.GET("/orders", user.GetMyOrders)
		protected.GET("/orders/:id", user.GetOrderByID)
	}

	// 🛠️ Routes admin
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/products", admin.GetAllProducts)
		adminGroup.POST("/products", admin.CreateProduct)
		adminGroup.PUT("/products/:id", admin.UpdateProduct)
		adminGroup.PATCH("/products/:id/active", admin.SetProductActive)
		adminGroup.GET("/audit", admin.GetAuditLogs)
	}
}

func corsConfig() cors.Config {
	origins := []string{"http://localhost:5173"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
