package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
)

func (s *Server) ListStocks(c *gin.Context) {
	resp, err := s.stockSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStockByID(c *gin.Context) {
	resp, err := s.stockSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type restockRequest struct {
	IDs    []string `json:"ids"`
	Amount *int64   `json:"amount"`
}

func (s *Server) RestockStocks(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	touched, err := s.stockSvc.Restock(c.Request.Context(), inventorydomain.RestockRequest{
		IDs:    req.IDs,
		Amount: req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"restocked": touched}})
}

func isStockValidationError(err error) bool {
	switch err {
	case inventorydomain.ErrInvalidID,
		inventorydomain.ErrNonPositiveStock,
		inventorydomain.ErrStockExceedsCeil,
		inventorydomain.ErrInvalidRestockRows:
		return true
	default:
		return false
	}
}
