package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNewProduct(t *testing.T) {
	assert.Equal(t, "", validateNewProduct("Clavier mécanique", 49.90, 10))
}

func TestValidateNewProductNameTooShort(t *testing.T) {
	msg := validateNewProduct("ab", 10.0, 5)
	assert.NotEqual(t, "", msg)

	// Les espaces ne comptent pas dans la longueur du nom
	msg = validateNewProduct("  ab   ", 10.0, 5)
	assert.NotEqual(t, "", msg)
}

func TestValidateNewProductPrice(t *testing.T) {
	assert.NotEqual(t, "", validateNewProduct("Clavier", -1.0, 5))
	assert.NotEqual(t, "", validateNewProduct("Clavier", 0.0, 5))
	assert.Equal(t, "", validateNewProduct("Clavier", 0.01, 5))
}

func TestValidateNewProductStock(t *testing.T) {
	assert.NotEqual(t, "", validateNewProduct("Clavier", 10.0, -1))
	assert.Equal(t, "", validateNewProduct("Clavier", 10.0, 0))
}
