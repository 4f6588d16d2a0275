package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin".
// Le rôle vient du JWT vérifié par AuthRequired, jamais du client.
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
