package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
)

type nameRequest struct {
	Name string `json:"name"`
}

// -------- Categories --------

func (s *Server) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateCategory(c.Request.Context(), catalogdomain.CreateCategoryRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCategories(c *gin.Context) {
	resp, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCategoryByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetCategory(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.UpdateCategory(c.Request.Context(), strings.TrimSpace(c.Param("id")), catalogdomain.UpdateNameRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	if err := s.catalogSvc.DeleteCategory(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListSubcategoriesByCategory(c *gin.Context) {
	resp, err := s.catalogSvc.ListSubcategoriesOf(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// -------- Subcategories --------

type createSubcategoryRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

func (s *Server) CreateSubcategory(c *gin.Context) {
	var req createSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateSubcategory(c.Request.Context(), catalogdomain.CreateSubcategoryRequest{
		Name:       strings.TrimSpace(req.Name),
		CategoryID: strings.TrimSpace(req.CategoryID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSubcategories(c *gin.Context) {
	resp, err := s.catalogSvc.ListSubcategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubcategoryByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetSubcategory(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSubcategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.UpdateSubcategory(c.Request.Context(), strings.TrimSpace(c.Param("id")), catalogdomain.UpdateNameRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSubcategory(c *gin.Context) {
	if err := s.catalogSvc.DeleteSubcategory(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// -------- Brands --------

type createBrandRequest struct {
	Name          string `json:"name"`
	SubcategoryID string `json:"subcategory_id"`
}

func (s *Server) CreateBrand(c *gin.Context) {
	var req createBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateBrand(c.Request.Context(), catalogdomain.CreateBrandRequest{
		Name:          strings.TrimSpace(req.Name),
		SubcategoryID: strings.TrimSpace(req.SubcategoryID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBrands(c *gin.Context) {
	resp, err := s.catalogSvc.ListBrands(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBrandByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetBrand(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBrand(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.UpdateBrand(c.Request.Context(), strings.TrimSpace(c.Param("id")), catalogdomain.UpdateNameRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBrand(c *gin.Context) {
	if err := s.catalogSvc.DeleteBrand(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// -------- Models --------

type createModelRequest struct {
	Name          string `json:"name"`
	BrandID       string `json:"brand_id"`
	SubcategoryID string `json:"subcategory_id"`
}

func (s *Server) CreateModel(c *gin.Context) {
	var req createModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateModel(c.Request.Context(), catalogdomain.CreateModelRequest{
		Name:          strings.TrimSpace(req.Name),
		BrandID:       strings.TrimSpace(req.BrandID),
		SubcategoryID: strings.TrimSpace(req.SubcategoryID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListModels(c *gin.Context) {
	resp, err := s.catalogSvc.ListModels(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetModelByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetModel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateModel(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.UpdateModel(c.Request.Context(), strings.TrimSpace(c.Param("id")), catalogdomain.UpdateNameRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteModel(c *gin.Context) {
	if err := s.catalogSvc.DeleteModel(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidID,
		catalogdomain.ErrCategoryRequired,
		catalogdomain.ErrSubcategoryRequired,
		catalogdomain.ErrBrandRequired:
		return true
	default:
		return false
	}
}
