package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
)

// WebAppProduct serves the buyer-facing order form data: the product
// with its live availability.
func (s *Server) WebAppProduct(c *gin.Context) {
	productID := strings.TrimSpace(c.Query("product_id"))
	if productID == "" {
		AbortWithError(c, newValidationError("product_id", "invalid_request", "product_id is required"))
		return
	}

	resp, err := s.productSvc.Get(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type webAppOrderRequest struct {
	ProductID     string  `json:"product_id"`
	FullName      string  `json:"full_name"`
	Address       string  `json:"address"`
	PhoneNumber   string  `json:"phone_number"`
	Comment       *string `json:"comment"`
	Quantity      int64   `json:"quantity"`
	PaymentMethod string  `json:"payment_method"`
}

// WebAppOrder accepts the buyer's order submission and hands back the
// order together with the payment step location.
func (s *Server) WebAppOrder(c *gin.Context) {
	var req webAppOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateRequest{
		ProductID:     strings.TrimSpace(req.ProductID),
		FullName:      strings.TrimSpace(req.FullName),
		Address:       strings.TrimSpace(req.Address),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		Comment:       req.Comment,
		Quantity:      req.Quantity,
		OrderType:     orderdomain.OrderTypeWebApp,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        resp,
		"payment_url": s.cfg.SiteURL + "/api/payment/" + resp.ID,
	})
}

// PaymentDetails serves the payment step: the order summary plus the
// accepted transfer channels.
func (s *Server) PaymentDetails(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("order_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":            resp,
		"payment_methods": orderdomain.PaymentMethods,
	})
}

type submitPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	PaymentRef    string `json:"payment_ref"`
}

// SubmitPayment records the buyer's transfer reference. The order stays
// unpaid until an operator verifies the transfer and flips the flag.
func (s *Server) SubmitPayment(c *gin.Context) {
	var req submitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.ConfirmPayment(c.Request.Context(), strings.TrimSpace(c.Param("order_id")), orderdomain.ConfirmPaymentRequest{
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		PaymentRef:    strings.TrimSpace(req.PaymentRef),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
