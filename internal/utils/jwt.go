package utils

import (
	"os"
	"time"

	"tienda_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret retourne le secret HMAC partagé avec le middleware.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

func GenerateJWT(user models.User) (string, error) {
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}
