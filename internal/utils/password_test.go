package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("monSuperMotDePasse")
	assert.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("monSuperMotDePasse", hash)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordWrongPassword(t *testing.T) {
	hash, err := HashPassword("motDePasseCorrect")
	assert.NoError(t, err)

	ok, err := VerifyPassword("motDePasseFaux", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, err := HashPassword("pareil")
	assert.NoError(t, err)
	h2, err := HashPassword("pareil")
	assert.NoError(t, err)

	// Sel aléatoire : deux hachages du même mot de passe diffèrent
	assert.NotEqual(t, h1, h2)
}

func TestIsArgon2HashRejectsPlaintext(t *testing.T) {
	assert.False(t, IsArgon2Hash("pas-un-hash"))
	assert.False(t, IsArgon2Hash(""))
}
