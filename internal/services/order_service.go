package services

import (
	"context"
	"fmt"
	"log"

	"store-service/internal/domain"
	"store-service/internal/infra/rabbitmq"
	"store-service/internal/repository"

	"github.com/google/uuid"
)

type OrderService struct {
	uow       repository.UnitOfWork
	orders    repository.OrderRepository
	publisher rabbitmq.PublisherInterface
}

func NewOrderService(uow repository.UnitOfWork, orders repository.OrderRepository, pub rabbitmq.PublisherInterface) *OrderService {
	return &OrderService{
		uow:       uow,
		orders:    orders,
		publisher: pub,
	}
}

// PlaceOrder turns the user's cart into an order: validate every line against
// current catalog state, snapshot unit prices, decrement stock, clear the
// cart. The whole sequence runs in one transaction, so a failed line leaves
// no order row and no stock change behind.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint64, shippingAddress, billingAddress string) (*domain.Order, error) {
	var placed *domain.Order

	err := s.uow.Do(ctx, func(tx repository.Stores) error {
		cart, err := tx.Carts.FindByUserWithItems(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		order := &domain.Order{
			Number:          uuid.NewString(),
			UserID:          userID,
			Status:          domain.StatusPending,
			ShippingAddress: shippingAddress,
			BillingAddress:  billingAddress,
		}

		for _, line := range cart.Items {
			product, err := tx.Products.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("product %d: %w", line.ProductID, ErrProductNotFound)
			}
			if !product.Active {
				return fmt.Errorf("product %q: %w", product.Name, ErrProductUnavailable)
			}
			if product.StockQuantity < line.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.StockQuantity,
				}
			}

			order.Items = append(order.Items, domain.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			order.TotalAmount += float64(line.Quantity) * product.Price
		}

		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		// Conditional decrement: a concurrent placement that drained the
		// stock between our check and this update matches zero rows, which
		// aborts and rolls back the whole transaction.
		for _, line := range cart.Items {
			ok, err := tx.Products.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{
					ProductID: line.ProductID,
					Requested: line.Quantity,
				}
			}
		}

		if err := tx.Carts.DeleteItems(ctx, cart.ID); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.publishOrderEvent(context.Background(), "order.created", placed)

	return placed, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	order, err := s.orders.FindWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, page, pageSize int) ([]domain.Order, error) {
	return s.orders.ListByStatus(ctx, status, page, pageSize)
}

// UpdateOrderStatus applies one step of the order state machine. Illegal
// transitions are rejected rather than written through.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint64, newStatus domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, newStatus, ErrInvalidStatusTransition)
	}

	order.Status = newStatus
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	go s.publishOrderEvent(context.Background(), "order.status_changed", order)

	return order, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, routingKey string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	evt := map[string]any{
		"orderId":     order.ID,
		"number":      order.Number,
		"userId":      order.UserID,
		"status":      order.Status,
		"totalAmount": order.TotalAmount,
		"createdAt":   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, routingKey, evt); err != nil {
		log.Printf("Failed to publish %s event for order %d: %v", routingKey, order.ID, err)
	}
}
