package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Carts      *service.CartService
	Orders     *service.OrderService
	Users      *service.UserService
	Products   *service.ProductService
	Categories *service.CategoryService
	Addresses  *service.AddressService
	Tokens     *auth.TokenManager
}

// respondError renders a service error as {"error", "code"} with the status
// that matches its kind. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindBusinessRule:
		status = http.StatusBadRequest
		if e.Code == apperr.CodeInsufficientStock {
			status = http.StatusConflict
		}
	case apperr.KindInvalid:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}

	code := string(e.Code)
	if code == "" {
		code = e.Kind.String()
	}
	c.JSON(status, gin.H{"error": e.Message, "code": code})
}

// idParam parses a positive int64 path parameter. It writes a 400 and
// returns false when the value is unusable.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return n, true
}

// pageRequest reads pageNumber, pageSize, sortBy and sortOrder from the query
// string, falling back to the defaults.
func pageRequest(c *gin.Context, defaultSort string) (service.PageRequest, bool) {
	pageNumber, err := strconv.Atoi(c.DefaultQuery("pageNumber", strconv.Itoa(service.DefaultPageNumber)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pageNumber"})
		return service.PageRequest{}, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(service.DefaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pageSize"})
		return service.PageRequest{}, false
	}
	return service.PageRequest{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		SortBy:     c.DefaultQuery("sortBy", defaultSort),
		SortOrder:  c.DefaultQuery("sortOrder", service.DefaultSortOrder),
	}, true
}
