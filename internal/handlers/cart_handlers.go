package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers ---
//

// AddProductToCart adds to the caller's own cart; the email comes from the token.
func (h *Handlers) AddProductToCart(c *gin.Context) {
	email, ok := middleware.CurrentEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	quantity, ok := intParam(c, "quantity")
	if !ok {
		return
	}

	cart, err := h.Carts.AddProductToCart(c.Request.Context(), email, productID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

// GetCarts (Admin Only)
func (h *Handlers) GetCarts(c *gin.Context) {
	carts, err := h.Carts.GetAllCarts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carts)
}

func (h *Handlers) GetCart(c *gin.Context) {
	cartID, ok := idParam(c, "cartId")
	if !ok {
		return
	}

	cart, err := h.Carts.GetCart(c.Request.Context(), c.Param("emailId"), cartID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handlers) UpdateCartProductQuantity(c *gin.Context) {
	cartID, ok := idParam(c, "cartId")
	if !ok {
		return
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	quantity, ok := intParam(c, "quantity")
	if !ok {
		return
	}

	cart, err := h.Carts.UpdateProductQuantityInCart(c.Request.Context(), cartID, productID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handlers) DeleteProductFromCart(c *gin.Context) {
	cartID, ok := idParam(c, "cartId")
	if !ok {
		return
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	msg, err := h.Carts.DeleteProductFromCart(c.Request.Context(), cartID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
