package models

// --- API Input/Output Structs ---
// These are the wire shapes. Entities above never leave the service layer.

type AddressDTO struct {
	AddressID    int64  `json:"addressId"`
	Street       string `json:"street" binding:"required,min=5"`
	BuildingName string `json:"buildingName" binding:"required,min=5"`
	City         string `json:"city" binding:"required,min=4"`
	State        string `json:"state" binding:"required,min=2"`
	Country      string `json:"country" binding:"required,min=2"`
	Pincode      string `json:"pincode" binding:"required,min=6"`
}

type RoleDTO struct {
	RoleID   int64  `json:"roleId"`
	RoleName string `json:"roleName"`
}

type UserDTO struct {
	UserID       int64       `json:"userId"`
	FirstName    string      `json:"firstName" binding:"required,min=2,max=30"`
	LastName     string      `json:"lastName" binding:"required,min=2,max=30"`
	MobileNumber string      `json:"mobileNumber" binding:"required,len=10,numeric"`
	Email        string      `json:"email" binding:"required,email"`
	Password     string      `json:"password,omitempty" binding:"required,min=6"`
	Roles        []RoleDTO   `json:"roles"`
	Address      *AddressDTO `json:"address,omitempty"`
	Cart         *CartDTO    `json:"cart,omitempty"`
}

type LoginCredentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CategoryDTO struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName" binding:"required,min=5"`
	Slug         string `json:"slug"`
}

type ProductDTO struct {
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName" binding:"required,min=3"`
	Image        string  `json:"image"`
	Description  string  `json:"description" binding:"required,min=6"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	Price        float64 `json:"price" binding:"gte=0"`
	Discount     float64 `json:"discount" binding:"gte=0,lte=100"`
	SpecialPrice float64 `json:"specialPrice"`
}

type CartDTO struct {
	CartID     int64        `json:"cartId"`
	TotalPrice float64      `json:"totalPrice"`
	Products   []ProductDTO `json:"products"`
}

type PaymentDTO struct {
	PaymentID     int64  `json:"paymentId"`
	PaymentMethod string `json:"paymentMethod"`
}

type OrderItemDTO struct {
	OrderItemID         int64      `json:"orderItemId"`
	Product             ProductDTO `json:"product"`
	Quantity            int        `json:"quantity"`
	Discount            float64    `json:"discount"`
	OrderedProductPrice float64    `json:"orderedProductPrice"`
}

type OrderDTO struct {
	OrderID     int64          `json:"orderId"`
	Email       string         `json:"email"`
	OrderItems  []OrderItemDTO `json:"orderItems"`
	OrderDate   string         `json:"orderDate"`
	Payment     *PaymentDTO    `json:"payment"`
	TotalAmount float64        `json:"totalAmount"`
	OrderStatus string         `json:"orderStatus"`
}

// Page is the pagination envelope shared by every list response.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	LastPage      bool  `json:"lastPage"`
}

type (
	OrderResponse    = Page[OrderDTO]
	UserResponse     = Page[UserDTO]
	ProductResponse  = Page[ProductDTO]
	CategoryResponse = Page[CategoryDTO]
)
