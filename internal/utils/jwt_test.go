package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"tienda_back_end/internal/models"
)

func TestGenerateJWTClaims(t *testing.T) {
	user := models.User{
		ID:    "11111111-2222-3333-4444-555555555555",
		Email: "test@tienda.local",
		Role:  models.RoleAdmin,
	}

	tokenString, err := GenerateJWT(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, models.RoleAdmin, claims["role"])

	// Le token expire bien
	_, hasExp := claims["exp"]
	assert.True(t, hasExp)
}
