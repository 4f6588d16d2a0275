package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProductSearchBody(t *testing.T) {
	body := buildProductSearchBody("cla")

	// Borne assez large pour que le tri/coupe en mémoire voie tous les
	// produits correspondants, comme le fallback ScyllaDB
	assert.Equal(t, productSearchMaxHits, body["size"])
	assert.GreaterOrEqual(t, productSearchMaxHits, 1000)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})

	wildcard := boolQuery["must"].(map[string]interface{})["wildcard"].(map[string]interface{})
	name := wildcard["name"].(map[string]interface{})
	assert.Equal(t, "*cla*", name["value"])
	assert.Equal(t, true, name["case_insensitive"])

	term := boolQuery["filter"].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, true, term["is_active"])
}
