package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// --- Address Handlers ---

func (h *Handlers) CreateAddress(c *gin.Context) {
	var input models.AddressDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	addr, err := h.Addresses.CreateAddress(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *Handlers) GetAddresses(c *gin.Context) {
	addrs, err := h.Addresses.GetAddresses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addrs)
}

func (h *Handlers) GetAddress(c *gin.Context) {
	addressID, ok := idParam(c, "addressId")
	if !ok {
		return
	}

	addr, err := h.Addresses.GetAddress(c.Request.Context(), addressID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

// UpdateAddress may answer with a different addressId when the new fields
// match an address that already exists.
func (h *Handlers) UpdateAddress(c *gin.Context) {
	addressID, ok := idParam(c, "addressId")
	if !ok {
		return
	}

	var input models.AddressDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	addr, err := h.Addresses.UpdateAddress(c.Request.Context(), addressID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handlers) DeleteAddress(c *gin.Context) {
	addressID, ok := idParam(c, "addressId")
	if !ok {
		return
	}

	msg, err := h.Addresses.DeleteAddress(c.Request.Context(), addressID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
