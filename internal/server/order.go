package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
)

type createOrderRequest struct {
	ProductID     string  `json:"product_id"`
	FullName      string  `json:"full_name"`
	Address       string  `json:"address"`
	PhoneNumber   string  `json:"phone_number"`
	Comment       *string `json:"comment"`
	Quantity      int64   `json:"quantity"`
	OrderType     string  `json:"order_type"`
	PaymentMethod string  `json:"payment_method"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
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
		OrderType:     strings.TrimSpace(req.OrderType),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOrders(c *gin.Context) {
	resp, err := s.orderSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateOrderRequest struct {
	FullName    *string `json:"full_name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Comment     *string `json:"comment"`
}

func (s *Server) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Update(c.Request.Context(), orderdomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		FullName:    req.FullName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Comment:     req.Comment,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteOrder(c *gin.Context) {
	if err := s.orderSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) MarkOrderPaid(c *gin.Context) {
	resp, err := s.orderSvc.MarkPaid(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isOrderValidationError(err error) bool {
	switch err {
	case orderdomain.ErrInvalidID,
		orderdomain.ErrInvalidFullName,
		orderdomain.ErrInvalidAddress,
		orderdomain.ErrInvalidPhoneNumber,
		orderdomain.ErrInvalidQuantity,
		orderdomain.ErrInvalidPaymentMethod,
		orderdomain.ErrInvalidPaymentRef:
		return true
	default:
		return false
	}
}
