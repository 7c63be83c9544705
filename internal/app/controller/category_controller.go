package controller

import (
	"net/http"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type AddCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Img  string `json:"img" binding:"omitempty,url"`
}

type LinkCategoryRequest struct {
	ProductUUID  string `json:"product_uuid" binding:"required,uuid"`
	CategoryUUID string `json:"category_uuid" binding:"required,uuid"`
}

// GET /api/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categoryService.List()
	if err != nil {
		respondServiceError(c, err, "fetch categories")
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/merchant/add_category
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req AddCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	category, err := ctrl.categoryService.Create(req.Name, req.Img)
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// PATCH /api/merchant/link_category
func (ctrl *CategoryController) LinkProduct(c *gin.Context) {
	merchantID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req LinkCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	productID, ok := parseUUID(c, req.ProductUUID, "product_uuid")
	if !ok {
		return
	}
	categoryID, ok := parseUUID(c, req.CategoryUUID, "category_uuid")
	if !ok {
		return
	}

	if err := ctrl.categoryService.LinkProduct(merchantID, productID, categoryID); err != nil {
		respondServiceError(c, err, "link category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_uuid":  productID,
		"category_uuid": categoryID,
	})
}

// GET /api/categories/:uuid/products
func (ctrl *CategoryController) ListProducts(c *gin.Context) {
	categoryID, ok := parseUUID(c, c.Param("uuid"), "uuid")
	if !ok {
		return
	}

	products, err := ctrl.categoryService.ListProducts(categoryID)
	if err != nil {
		respondServiceError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}
