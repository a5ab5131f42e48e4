// Package mapper converts between persistence entities and wire DTOs.
// Every function is pure: no I/O, no shared state.
package mapper

import (
	"github.com/01moynul/storefront-golang/internal/models"
)

// OrderDateLayout renders order dates as calendar days.
const OrderDateLayout = "2006-01-02"

func ToProductDTO(p models.Product) models.ProductDTO {
	return models.ProductDTO{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Image:        p.Image,
		Description:  p.Description,
		Quantity:     p.Quantity,
		Price:        p.Price,
		Discount:     p.Discount,
		SpecialPrice: p.SpecialPrice,
	}
}

func ToProduct(d models.ProductDTO) models.Product {
	return models.Product{
		ID:           d.ProductID,
		Name:         d.ProductName,
		Image:        d.Image,
		Description:  d.Description,
		Quantity:     d.Quantity,
		Price:        d.Price,
		Discount:     d.Discount,
		SpecialPrice: d.SpecialPrice,
	}
}

func ToCategoryDTO(c models.Category) models.CategoryDTO {
	return models.CategoryDTO{CategoryID: c.ID, CategoryName: c.Name, Slug: c.Slug}
}

func ToCategory(d models.CategoryDTO) models.Category {
	return models.Category{ID: d.CategoryID, Name: d.CategoryName, Slug: d.Slug}
}

func ToAddressDTO(a models.Address) models.AddressDTO {
	return models.AddressDTO{
		AddressID:    a.ID,
		Street:       a.Street,
		BuildingName: a.BuildingName,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		Pincode:      a.Pincode,
	}
}

func ToAddress(d models.AddressDTO) models.Address {
	return models.Address{
		ID:           d.AddressID,
		Street:       d.Street,
		BuildingName: d.BuildingName,
		City:         d.City,
		State:        d.State,
		Country:      d.Country,
		Pincode:      d.Pincode,
	}
}

// ToUserDTO never carries the password hash. The first address, if any, is exposed.
func ToUserDTO(u models.User) models.UserDTO {
	dto := models.UserDTO{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		MobileNumber: u.MobileNumber,
		Email:        u.Email,
		Roles:        make([]models.RoleDTO, 0, len(u.Roles)),
	}
	for _, r := range u.Roles {
		dto.Roles = append(dto.Roles, models.RoleDTO{RoleID: r.ID, RoleName: r.Name})
	}
	if len(u.Addresses) > 0 {
		addr := ToAddressDTO(u.Addresses[0])
		dto.Address = &addr
	}
	return dto
}

// ToUser maps the profile fields; password hashing and roles are the caller's job.
func ToUser(d models.UserDTO) models.User {
	return models.User{
		ID:           d.UserID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		MobileNumber: d.MobileNumber,
		Email:        d.Email,
	}
}

// ToCartDTO embeds the live product of every item, in item order.
func ToCartDTO(c models.Cart) models.CartDTO {
	dto := models.CartDTO{
		CartID:     c.ID,
		TotalPrice: c.TotalPrice,
		Products:   make([]models.ProductDTO, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		dto.Products = append(dto.Products, ToProductDTO(item.Product))
	}
	return dto
}

func ToPaymentDTO(p models.Payment) models.PaymentDTO {
	return models.PaymentDTO{PaymentID: p.ID, PaymentMethod: p.PaymentMethod}
}

func ToOrderItemDTO(i models.OrderItem) models.OrderItemDTO {
	return models.OrderItemDTO{
		OrderItemID:         i.ID,
		Product:             ToProductDTO(i.Product),
		Quantity:            i.Quantity,
		Discount:            i.Discount,
		OrderedProductPrice: i.OrderedProductPrice,
	}
}

func ToOrderDTO(o models.Order) models.OrderDTO {
	dto := models.OrderDTO{
		OrderID:     o.ID,
		Email:       o.Email,
		OrderItems:  make([]models.OrderItemDTO, 0, len(o.Items)),
		OrderDate:   o.OrderDate.Format(OrderDateLayout),
		TotalAmount: o.TotalAmount,
		OrderStatus: o.Status.String(),
	}
	if o.Payment != nil {
		p := ToPaymentDTO(*o.Payment)
		dto.Payment = &p
	}
	for _, item := range o.Items {
		dto.OrderItems = append(dto.OrderItems, ToOrderItemDTO(item))
	}
	return dto
}

// ToCartItemFromProduct snapshots the product's discount and special price into a new cart line.
func ToCartItemFromProduct(cartID int64, p models.Product, quantity int) models.CartItem {
	return models.CartItem{
		CartID:       cartID,
		ProductID:    p.ID,
		Quantity:     quantity,
		Discount:     p.Discount,
		ProductPrice: p.SpecialPrice,
		Product:      p,
	}
}

// ToOrderItemFromCartItem copies a cart line's snapshots into an order line.
func ToOrderItemFromCartItem(orderID int64, c models.CartItem) models.OrderItem {
	return models.OrderItem{
		OrderID:             orderID,
		ProductID:           c.ProductID,
		Quantity:            c.Quantity,
		Discount:            c.Discount,
		OrderedProductPrice: c.ProductPrice,
		Product:             c.Product,
	}
}

// MapSlice applies fn to every element, always returning a non-nil slice.
func MapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
