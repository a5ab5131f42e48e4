package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// --- Category Handlers ---

// CreateCategory (Admin Only)
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CategoryDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	category, err := h.Categories.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handlers) GetCategories(c *gin.Context) {
	page, ok := pageRequest(c, "categoryId")
	if !ok {
		return
	}

	resp, err := h.Categories.GetCategories(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCategory (Admin Only)
func (h *Handlers) UpdateCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "categoryId")
	if !ok {
		return
	}

	var input models.CategoryDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	category, err := h.Categories.UpdateCategory(c.Request.Context(), categoryID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory (Admin Only) - also deletes the category's products
func (h *Handlers) DeleteCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "categoryId")
	if !ok {
		return
	}

	msg, err := h.Categories.DeleteCategory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// --- Product Handlers ---

// AddProduct (Admin Only)
func (h *Handlers) AddProduct(c *gin.Context) {
	categoryID, ok := idParam(c, "categoryId")
	if !ok {
		return
	}

	var input models.ProductDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	product, err := h.Products.AddProduct(c.Request.Context(), categoryID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handlers) GetProducts(c *gin.Context) {
	page, ok := pageRequest(c, "productId")
	if !ok {
		return
	}

	resp, err := h.Products.GetAllProducts(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetProductsByCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "categoryId")
	if !ok {
		return
	}
	page, ok := pageRequest(c, "productId")
	if !ok {
		return
	}

	resp, err := h.Products.SearchByCategory(c.Request.Context(), categoryID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetProductsByKeyword(c *gin.Context) {
	page, ok := pageRequest(c, "productId")
	if !ok {
		return
	}

	resp, err := h.Products.SearchByKeyword(c.Request.Context(), c.Param("keyword"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProduct (Admin Only) - carts holding the product pick up the new price
func (h *Handlers) UpdateProduct(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	var input models.ProductDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	product, err := h.Products.UpdateProduct(c.Request.Context(), productID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct (Admin Only)
func (h *Handlers) DeleteProduct(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	msg, err := h.Products.DeleteProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
