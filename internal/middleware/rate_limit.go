package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tienda_back_end/internal/database"
)

const (
	// Limites par endpoint
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	// Durées de cooldown
	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email
func LoginRateLimit() gin.HandlerFunc {
	return rateLimitByEmail("login_attempts:", "login_cooldown:", LoginMaxAttempts, LoginCooldown)
}

// RegisterRateLimit limite les inscriptions par email
func RegisterRateLimit() gin.HandlerFunc {
	return rateLimitByEmail("register_attempts:", "register_cooldown:", RegisterMaxAttempts, RegisterCooldown)
}

func rateLimitByEmail(attemptsPrefix, cooldownPrefix string, maxAttempts int, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}

		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		key := attemptsPrefix + input.Email

		// Vérifier si l'utilisateur est en cooldown
		cooldownKey := cooldownPrefix + input.Email
		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(ttl.Minutes())),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		// Vérifier le nombre de tentatives
		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= maxAttempts {
			// Activer le cooldown
			database.Redis.Set(ctx, cooldownKey, "1", cooldown)
			database.Redis.Del(ctx, key)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Compte bloqué pendant %d minutes", int(cooldown.Minutes())),
				"retry_after": int(cooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RecordFailedAttempt incrémente le compteur après un échec
func RecordFailedAttempt(prefix, email string) {
	ctx := context.Background()
	key := prefix + email
	database.Redis.Incr(ctx, key)
	database.Redis.Expire(ctx, key, 30*time.Minute)
}

// ClearAttempts remet le compteur à zéro après un succès
func ClearAttempts(prefix, email string) {
	ctx := context.Background()
	database.Redis.Del(ctx, prefix+email)
}
