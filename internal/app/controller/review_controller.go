package controller

import (
	"net/http"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	ProductUUID string           `json:"product_uuid" binding:"required,uuid"`
	Rating      *decimal.Decimal `json:"rating" binding:"required"`
	ReviewText  string           `json:"review_text" binding:"max=5000"`
	Images      []string         `json:"images" binding:"max=10,dive,url"`
}

// POST /api/create_review
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	productID, ok := parseUUID(c, req.ProductUUID, "product_uuid")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, service.CreateReviewInput{
		ProductID:  productID,
		Rating:     *req.Rating,
		ReviewText: req.ReviewText,
		ImageURLs:  req.Images,
	})
	if err != nil {
		respondServiceError(c, err, "create review")
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

// GET /api/get_reviews?product_uuid=
func (ctrl *ReviewController) GetReviews(c *gin.Context) {
	productID, ok := parseUUID(c, c.Query("product_uuid"), "product_uuid")
	if !ok {
		return
	}

	result, err := ctrl.reviewService.ListReviews(productID)
	if err != nil {
		respondServiceError(c, err, "fetch reviews")
		return
	}

	reviews := make([]ReviewResponse, 0, len(result.Reviews))
	for i := range result.Reviews {
		reviews = append(reviews, toReviewResponse(&result.Reviews[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": result.AverageRating.StringFixed(1),
		"count":          result.Count,
	})
}
