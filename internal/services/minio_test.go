package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPublicURL(t *testing.T) {
	t.Setenv("MINIO_PUBLIC_URL", "https://cdn.tienda.local")
	t.Setenv("MINIO_BUCKET", "product-images")

	url := GetPublicURL("products/abc.png")
	assert.Equal(t, "https://cdn.tienda.local/product-images/products/abc.png", url)
}

func TestGetPublicURLFallsBackToEndpoint(t *testing.T) {
	t.Setenv("MINIO_PUBLIC_URL", "")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "product-images")

	url := GetPublicURL("products/abc.png")
	assert.Equal(t, "http://localhost:9000/product-images/products/abc.png", url)
}

func TestGetPublicURLEmptyPath(t *testing.T) {
	assert.Equal(t, "", GetPublicURL(""))
}
