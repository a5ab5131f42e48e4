package handlers

import (
	"log"
	"net/http"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// --- Auth Handlers ---

// Register creates a USER account and returns a token for it.
func (h *Handlers) Register(c *gin.Context) {
	var input models.UserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	user, err := h.Users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.Tokens.GenerateToken(user.Email)
	if err != nil {
		log.Printf("token generation failed for %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"jwt-token": token})
}

func (h *Handlers) Login(c *gin.Context) {
	var input models.LoginCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	user, err := h.Users.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.Tokens.GenerateToken(user.Email)
	if err != nil {
		log.Printf("token generation failed for %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jwt-token": token})
}

// --- User Handlers ---

// GetUsers (Admin Only) - paginated
func (h *Handlers) GetUsers(c *gin.Context) {
	page, ok := pageRequest(c, "userId")
	if !ok {
		return
	}

	resp, err := h.Users.GetAllUsers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	var input models.UserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	user, err := h.Users.UpdateUser(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser (Admin Only)
func (h *Handlers) DeleteUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	msg, err := h.Users.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
