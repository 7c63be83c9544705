package controller

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewController_CreateReview(t *testing.T) {
	env := setupControllerTest(t)
	merchant, _ := env.createUser(t, "farm@example.com", true)
	customer, token := env.createUser(t, "buyer@example.com", false)
	product := env.createProduct(t, merchant, "Carrots", "1.00", false)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Valid review with image",
			body: map[string]interface{}{
				"product_uuid": product.ID.String(),
				"rating":       "4.5",
				"review_text":  "Crunchy",
				"images":       []string{"https://cdn.example.com/reviews/1.jpg"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Second review by same author",
			body:           map[string]interface{}{"product_uuid": product.ID.String(), "rating": "3"},
			expectedStatus: http.StatusConflict,
			expectedCode:   "REVIEW_ALREADY_EXISTS",
		},
		{
			name:           "Rating above five",
			body:           map[string]interface{}{"product_uuid": product.ID.String(), "rating": "5.5"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "REVIEW_INVALID_RATING",
		},
		{
			name:           "Rating with two decimals",
			body:           map[string]interface{}{"product_uuid": product.ID.String(), "rating": "4.25"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "REVIEW_INVALID_RATING",
		},
		{
			name:           "Image must be a URL",
			body:           map[string]interface{}{"product_uuid": product.ID.String(), "rating": "4", "images": []string{"nope"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_INVALID_INPUT",
		},
		{
			name:           "Unknown product",
			body:           map[string]interface{}{"product_uuid": uuid.NewString(), "rating": "4"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "PRODUCT_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/create_review", token, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
				return
			}
			review := decode[ReviewResponse](t, w)
			assert.Equal(t, "4.5", review.Rating)
			assert.Equal(t, customer.ID, review.Author)
			assert.Equal(t, merchant.ID, review.Merchant)
			assert.Equal(t, []string{"https://cdn.example.com/reviews/1.jpg"}, review.Images)
		})
	}
}

func TestReviewController_GetReviews(t *testing.T) {
	env := setupControllerTest(t)
	merchant, _ := env.createUser(t, "farm@example.com", true)
	_, first := env.createUser(t, "a@example.com", false)
	_, second := env.createUser(t, "b@example.com", false)
	product := env.createProduct(t, merchant, "Carrots", "1.00", false)

	for _, r := range []struct{ token, rating string }{{first, "4"}, {second, "3"}} {
		w := env.do(t, http.MethodPost, "/api/create_review", r.token, map[string]interface{}{
			"product_uuid": product.ID.String(),
			"rating":       r.rating,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/get_reviews?product_uuid="+product.ID.String(), first, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Reviews       []ReviewResponse `json:"reviews"`
		AverageRating string           `json:"average_rating"`
		Count         int64            `json:"count"`
	}](t, w)
	assert.Len(t, resp.Reviews, 2)
	assert.Equal(t, "3.5", resp.AverageRating)
	assert.EqualValues(t, 2, resp.Count)

	w = env.do(t, http.MethodGet, "/api/get_reviews?product_uuid="+uuid.NewString(), first, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
