package routes

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware tells the browser that it is safe for the storefront
// frontend at origin to call us.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Strictly allow ONLY the configured frontend
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)

		// 2. Allow standard security credentials
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 3. Allow the headers we actually use (specifically "Authorization" for JWT tokens)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")

		// 4. Allow the HTTP methods we use in our API
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		// 5. Handle the "Preflight" OPTIONS request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, corsOrigin string) *gin.Engine {
	router := gin.Default()

	// --- APPLY THE CORS GUARD ---
	// This must be the very first thing the router uses
	router.Use(CORSMiddleware(corsOrigin))
	router.Use(middleware.RequestID())

	api := router.Group("/api")
	{
		// --- Ping Route (Public) ---
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)

		// --- Public Catalog Routes ---
		catalog := api.Group("/public")
		{
			catalog.GET("/categories", h.GetCategories)
			catalog.GET("/categories/:categoryId/products", h.GetProductsByCategory)
			catalog.GET("/products", h.GetProducts)
			catalog.GET("/products/keyword/:keyword", h.GetProductsByKeyword)
		}

		// --- Protected Routes (Login Required) ---
		authed := api.Group("/")
		authed.Use(middleware.AuthMiddleware(h.Tokens))
		{
			// Carts addressed by id
			authed.POST("/public/carts/products/:productId/quantity/:quantity", h.AddProductToCart)
			authed.PUT("/public/carts/:cartId/products/:productId/quantity/:quantity", h.UpdateCartProductQuantity)
			authed.DELETE("/public/carts/:cartId/products/:productId", h.DeleteProductFromCart)

			// Accounts
			authed.GET("/public/accounts/:userId", h.GetUser)
			authed.PUT("/public/accounts/:userId", h.UpdateUser)

			// Addresses
			authed.POST("/addresses", h.CreateAddress)
			authed.GET("/addresses", h.GetAddresses)
			authed.GET("/addresses/:addressId", h.GetAddress)
			authed.PUT("/addresses/:addressId", h.UpdateAddress)
			authed.DELETE("/addresses/:addressId", h.DeleteAddress)
		}

		// --- Per-User Routes (Owner or Admin) ---
		owner := api.Group("/public/users/:emailId")
		owner.Use(middleware.AuthMiddleware(h.Tokens))
		owner.Use(middleware.SelfOrAdminMiddleware("emailId", h.Users))
		{
			owner.GET("/carts/:cartId", h.GetCart)
			owner.POST("/carts/:cartId/payments/:paymentMethod/order", h.PlaceOrder)
			owner.GET("/orders", h.GetOrdersByUser)
			owner.GET("/orders/:orderId", h.GetOrderByUser)
		}

		// --- Admin-Only Routes ---
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.Tokens))
		admin.Use(middleware.AdminMiddleware(h.Users))
		{
			admin.GET("/carts", h.GetCarts)
			admin.GET("/orders", h.GetAllOrders)
			admin.PUT("/users/:emailId/orders/:orderId/orderStatus/:orderStatus", h.UpdateOrderStatus)

			admin.GET("/users", h.GetUsers)
			admin.DELETE("/accounts/:userId", h.DeleteUser)

			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:categoryId", h.UpdateCategory)
			admin.DELETE("/categories/:categoryId", h.DeleteCategory)

			admin.POST("/categories/:categoryId/product", h.AddProduct)
			admin.PUT("/products/:productId", h.UpdateProduct)
			admin.DELETE("/products/:productId", h.DeleteProduct)
		}
	}

	return router
}
