package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- Order Handlers ---

// PlaceOrder checks out the cart. The payment method is an opaque label.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	cartID, ok := idParam(c, "cartId")
	if !ok {
		return
	}

	order, err := h.Orders.PlaceOrder(c.Request.Context(), c.Param("emailId"), cartID, c.Param("paymentMethod"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetAllOrders (Admin Only) - paginated
func (h *Handlers) GetAllOrders(c *gin.Context) {
	page, ok := pageRequest(c, "totalAmount")
	if !ok {
		return
	}

	resp, err := h.Orders.GetAllOrders(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetOrdersByUser(c *gin.Context) {
	orders, err := h.Orders.GetOrdersByUser(c.Request.Context(), c.Param("emailId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handlers) GetOrderByUser(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("emailId"), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus (Admin Only)
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}

	order, err := h.Orders.UpdateOrder(c.Request.Context(), c.Param("emailId"), orderID, c.Param("orderStatus"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
