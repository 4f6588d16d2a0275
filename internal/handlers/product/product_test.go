package product

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"tienda_back_end/internal/models"
)

func TestMatchesCatalogFilterNeverReturnsInactive(t *testing.T) {
	inactive := models.Product{Name: "Clavier", IsActive: false}

	assert.False(t, matchesCatalogFilter(inactive, "", nil))
	assert.False(t, matchesCatalogFilter(inactive, "clavier", nil))

	catID := gocql.TimeUUID()
	inactive.CategoryID = catID
	assert.False(t, matchesCatalogFilter(inactive, "", &catID))
}

func TestMatchesCatalogFilterSearch(t *testing.T) {
	p := models.Product{Name: "Clavier Mécanique", IsActive: true}

	assert.True(t, matchesCatalogFilter(p, "", nil))
	assert.True(t, matchesCatalogFilter(p, "clavier", nil))
	assert.True(t, matchesCatalogFilter(p, "MÉCANIQUE", nil))
	assert.False(t, matchesCatalogFilter(p, "souris", nil))
}

func TestMatchesCatalogFilterCategory(t *testing.T) {
	catID := gocql.TimeUUID()
	otherID := gocql.TimeUUID()
	p := models.Product{Name: "Clavier", IsActive: true, CategoryID: catID}

	assert.True(t, matchesCatalogFilter(p, "", &catID))
	assert.False(t, matchesCatalogFilter(p, "", &otherID))
}

func TestContainsIgnoreCase(t *testing.T) {
	assert.True(t, containsIgnoreCase("Clavier Mécanique", "méca"))
	assert.True(t, containsIgnoreCase("clavier", "CLAVIER"))
	assert.False(t, containsIgnoreCase("clavier", "souris"))
}

func TestSortProductsByName(t *testing.T) {
	products := []models.Product{
		{Name: "souris"},
		{Name: "Clavier"},
		{Name: "Batterie"},
	}

	sortProductsByName(products)

	assert.Equal(t, "Batterie", products[0].Name)
	assert.Equal(t, "Clavier", products[1].Name)
	assert.Equal(t, "souris", products[2].Name)
}

func TestLimitCatalog(t *testing.T) {
	products := make([]models.Product, 20)
	assert.Len(t, limitCatalog(products), catalogPageSize)

	short := make([]models.Product, 5)
	assert.Len(t, limitCatalog(short), 5)
}
