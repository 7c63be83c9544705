package controller

import (
	"net/http"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type AddProductRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Units       string           `json:"units" binding:"max=255"`
	Description string           `json:"description"`
	IsFeatured  bool             `json:"is_featured"`
	Img         string           `json:"img" binding:"omitempty,url"`
}

type SearchRequest struct {
	Search string `json:"search" form:"search"`
}

// Home returns all products and the featured ones
// GET /api/home
func (ctrl *ProductController) Home(c *gin.Context) {
	feed, err := ctrl.productService.GetHomeFeed()
	if err != nil {
		respondServiceError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, toHomeResponse(feed))
}

// AddProduct puts a new product on sale for the calling merchant
// POST /api/merchant/add_product
func (ctrl *ProductController) AddProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	merchantID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add product request", map[string]interface{}{
			"merchant_id": merchantID,
			"error":       err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.AddProduct(merchantID, service.ProductInput{
		Name:        req.Name,
		Price:       *req.Price,
		Units:       req.Units,
		Description: req.Description,
		IsFeatured:  req.IsFeatured,
		ImageURL:    req.Img,
	})
	if err != nil {
		respondServiceError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product.Name,
		"price":   product.Price.StringFixed(2),
	})
}

// GetMerchantProducts lists the caller's products with images
// GET /api/merchant/get_products
func (ctrl *ProductController) GetMerchantProducts(c *gin.Context) {
	merchantID, ok := requireUserID(c)
	if !ok {
		return
	}

	products, err := ctrl.productService.ListMerchantProducts(merchantID)
	if err != nil {
		respondServiceError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

// SearchProducts matches a case-insensitive substring of the product name.
// GET reads ?search=, POST reads {"search": ...}.
// GET|POST /api/search_product
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	var req SearchRequest
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.RespondWithBindingError(c, err)
			return
		}
	} else {
		req.Search = c.Query("search")
	}

	products, err := ctrl.productService.Search(req.Search)
	if err != nil {
		respondServiceError(c, err, "search products")
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}
