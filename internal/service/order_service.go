package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/events"
	"github.com/01moynul/storefront-golang/internal/mapper"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
)

const defaultOrderSort = "totalAmount"

// OrderService turns carts into orders and owns order status afterwards.
type OrderService struct {
	store     *repository.Store
	carts     *CartService
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(store *repository.Store, carts *CartService, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{store: store, carts: carts, publisher: publisher, now: time.Now}
}

// PlaceOrder snapshots the cart into an order with its payment and lines,
// then empties the cart.
func (s *OrderService) PlaceOrder(ctx context.Context, email string, cartID int64, paymentMethod string) (*models.OrderDTO, error) {
	var order *models.Order
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		// 1. Resolve the cart
		cart, err := q.GetCartByEmailAndID(ctx, email, cartID)
		if err != nil {
			return notFound(err, "Cart", "cartId", cartID)
		}
		if len(cart.Items) == 0 {
			return apperr.Rule(apperr.CodeEmptyCart, "Cart is empty")
		}

		// 2. Order header and payment
		o := &models.Order{
			Email:       email,
			OrderDate:   s.now(),
			TotalAmount: cart.TotalPrice,
			Status:      models.OrderStatusAccepted,
		}
		if err := q.CreateOrder(ctx, o); err != nil {
			return err
		}
		if err := q.CreatePayment(ctx, &models.Payment{OrderID: o.ID, PaymentMethod: paymentMethod}); err != nil {
			return err
		}

		// 3. Copy every cart line into one batch of order lines
		lines := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, mapper.ToOrderItemFromCartItem(o.ID, item))
		}
		if _, err := q.CreateOrderItems(ctx, o.ID, lines); err != nil {
			return err
		}

		// 4. Empty the cart. Removing a line gives its quantity back to
		// stock, so it is taken again right after.
		for _, item := range cart.Items {
			if _, err := s.carts.deleteProductFromCart(ctx, q, cartID, item.ProductID); err != nil {
				return err
			}
			if err := q.AdjustProductQuantity(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		order, err = q.GetOrderByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.carts.invalidate(cartID)
	s.publishPlaced(ctx, order)

	dto := mapper.ToOrderDTO(*order)
	return &dto, nil
}

// GetOrder returns an order only when it belongs to email.
func (s *OrderService) GetOrder(ctx context.Context, email string, orderID int64) (*models.OrderDTO, error) {
	var dto models.OrderDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		order, err := q.GetOrderByEmailAndID(ctx, email, orderID)
		if err != nil {
			return notFound(err, "Order", "orderId", orderID)
		}
		dto = mapper.ToOrderDTO(*order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, email string) ([]models.OrderDTO, error) {
	var orders []models.Order
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		orders, err = q.ListOrdersByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.Rule(apperr.CodeEmpty, "No orders placed yet by user with email: %s", email)
	}
	return mapper.MapSlice(orders, mapper.ToOrderDTO), nil
}

// GetAllOrders returns one page of every order. An empty page is reported as
// Empty, including a page past the end of a non-empty set.
func (s *OrderService) GetAllOrders(ctx context.Context, page PageRequest) (*models.OrderResponse, error) {
	pq, err := page.query(defaultOrderSort)
	if err != nil {
		return nil, err
	}

	var (
		orders []models.Order
		total  int64
	)
	err = s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		orders, total, err = q.ListOrders(ctx, pq)
		return sortError(err)
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.Rule(apperr.CodeEmpty, "No orders placed yet by the users")
	}

	resp := newPage(mapper.MapSlice(orders, mapper.ToOrderDTO), page, total)
	return &resp, nil
}

// UpdateOrder moves an order to a new status. Only transitions in the status
// table are allowed; setting the current status again is a no-op. Cancelling
// returns the ordered quantities to stock.
func (s *OrderService) UpdateOrder(ctx context.Context, email string, orderID int64, status string) (*models.OrderDTO, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.Invalid("unknown order status: %s", status)
	}

	var (
		order *models.Order
		from  models.OrderStatus
	)
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		order, err = q.GetOrderByEmailAndID(ctx, email, orderID)
		if err != nil {
			return notFound(err, "Order", "orderId", orderID)
		}
		from = order.Status
		if from == next {
			return nil
		}
		if from.IsTerminal() {
			return apperr.Rule(apperr.CodeIllegalTransition,
				"Order %d is already %s and can no longer change", orderID, from)
		}
		if !from.CanTransitionTo(next) {
			return apperr.Rule(apperr.CodeIllegalTransition,
				"Order %d cannot move from %q to %q", orderID, from, next)
		}

		if next == models.OrderStatusCancelled {
			for _, item := range order.Items {
				err := q.AdjustProductQuantity(ctx, item.ProductID, item.Quantity)
				if errors.Is(err, repository.ErrNotFound) {
					continue // product left the catalog
				}
				if err != nil {
					return err
				}
			}
		}

		if err := q.UpdateOrderStatus(ctx, orderID, next); err != nil {
			return err
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != next {
		ev := events.OrderStatusChanged{
			OrderID:   order.ID,
			Email:     order.Email,
			From:      from.String(),
			To:        next.String(),
			ChangedAt: s.now(),
		}
		if err := s.publisher.PublishOrderStatusChanged(ctx, ev); err != nil {
			log.Printf("publish order status error: %v", err)
		}
	}

	dto := mapper.ToOrderDTO(*order)
	return &dto, nil
}

func (s *OrderService) publishPlaced(ctx context.Context, o *models.Order) {
	ev := events.OrderPlaced{
		OrderID:     o.ID,
		Email:       o.Email,
		TotalAmount: o.TotalAmount,
		Items:       make([]events.OrderLine, 0, len(o.Items)),
		PlacedAt:    s.now(),
	}
	if o.Payment != nil {
		ev.PaymentMethod = o.Payment.PaymentMethod
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, events.OrderLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.OrderedProductPrice,
		})
	}
	if err := s.publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("publish order placed error: %v", err)
	}
}
