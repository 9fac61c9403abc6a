package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
)

type createProductRequest struct {
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Description   *string        `json:"description"`
	ImageURL      *string        `json:"image_url"`
	CategoryID    string         `json:"category_id"`
	SubcategoryID string         `json:"subcategory_id"`
	BrandID       string         `json:"brand_id"`
	ModelID       string         `json:"model_id"`
	Quantity      int64          `json:"quantity"`
	Price         string         `json:"price"`
	Metadata      map[string]any `json:"metadata"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		CategoryID:    strings.TrimSpace(req.CategoryID),
		SubcategoryID: strings.TrimSpace(req.SubcategoryID),
		BrandID:       strings.TrimSpace(req.BrandID),
		ModelID:       strings.TrimSpace(req.ModelID),
		Quantity:      req.Quantity,
		Price:         strings.TrimSpace(req.Price),
		Metadata:      req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProductRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
	Quantity    *int64         `json:"quantity"`
	Price       *string        `json:"price"`
	Metadata    map[string]any `json:"metadata"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Metadata:    req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.productSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetProductHistory(c *gin.Context) {
	resp, err := s.productSvc.History(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProductValidationError(err error) bool {
	switch err {
	case productdomain.ErrInvalidCode,
		productdomain.ErrInvalidName,
		productdomain.ErrInvalidQuantity,
		productdomain.ErrInvalidPrice,
		productdomain.ErrInvalidID,
		productdomain.ErrCategoryNotFound,
		productdomain.ErrSubcategoryNotFound,
		productdomain.ErrBrandNotFound,
		productdomain.ErrModelNotFound:
		return true
	default:
		return false
	}
}
