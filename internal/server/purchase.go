package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
)

type purchaseResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	QuantityPurchased int64  `json:"quantity_purchased"`
	PurchaseDate      string `json:"purchase_date"`
	AddedBy           string `json:"added_by,omitempty"`
}

func (s *Server) ListPurchases(c *gin.Context) {
	ctx := c.Request.Context()

	var entries []purchasedomain.Purchase
	var err error
	if productID := strings.TrimSpace(c.Query("product_id")); productID != "" {
		parsed, parseErr := snowflake.ParseString(productID)
		if parseErr != nil {
			AbortWithError(c, newValidationError("product_id", "invalid_id", "invalid value"))
			return
		}
		entries, err = s.purchaseRepo.FindByProduct(ctx, s.db, parsed.Int64())
	} else {
		entries, err = s.purchaseRepo.FindAll(ctx, s.db)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]purchaseResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		resp = append(resp, purchaseResponse{
			ID:                snowflake.ID(e.ID).String(),
			ProductID:         snowflake.ID(e.ProductID).String(),
			QuantityPurchased: e.QuantityPurchased,
			PurchaseDate:      e.PurchaseDate.UTC().Format(time.RFC3339),
			AddedBy:           e.AddedBy,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
