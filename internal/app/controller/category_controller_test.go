package controller

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryController_CreateLinkAndList(t *testing.T) {
	env := setupControllerTest(t)
	merchant, token := env.createUser(t, "farm@example.com", true)
	product := env.createProduct(t, merchant, "Carrots", "1.00", false)

	w := env.do(t, http.MethodPost, "/api/merchant/add_category", token, map[string]interface{}{
		"name": "Vegetables",
		"img":  "https://cdn.example.com/categories/veg.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[CategoryResponse](t, w)
	require.NotNil(t, category.Image)

	w = env.do(t, http.MethodPost, "/api/merchant/add_category", token, map[string]interface{}{"name": "Vegetables"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPatch, "/api/merchant/link_category", token, map[string]interface{}{
		"product_uuid":  product.ID.String(),
		"category_uuid": category.UUID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]CategoryResponse](t, w), 1)

	w = env.do(t, http.MethodGet, "/api/categories/"+category.UUID.String()+"/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]ProductResponse](t, w)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].UUID)
}

func TestCategoryController_Errors(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.createUser(t, "farm@example.com", true)

	w := env.do(t, http.MethodGet, "/api/categories/not-a-uuid/products", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/categories/"+uuid.NewString()+"/products", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", errorCode(t, w))
}
