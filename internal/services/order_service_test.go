package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"store-service/internal/domain"
	"store-service/internal/mocks"
	"store-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// expectPublish arms the publisher mock and returns a channel that fires when
// the async publish goroutine has run, so tests never race against it.
func expectPublish(mockPub *mocks.MockPublisher, routingKey string) <-chan struct{} {
	published := make(chan struct{}, 1)
	mockPub.On("Publish", mock.Anything, routingKey, mock.Anything).Return(nil).Maybe().Run(func(mock.Arguments) {
		published <- struct{}{}
	})
	return published
}

func waitForPublish(t *testing.T, published <-chan struct{}) {
	t.Helper()
	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}
}

func newOrderServiceUnderTest() (*OrderService, *mocks.MockUnitOfWork, *mocks.MockProductRepository, *mocks.MockCartRepository, *mocks.MockOrderRepository, *mocks.MockPublisher) {
	mockProducts := new(mocks.MockProductRepository)
	mockCarts := new(mocks.MockCartRepository)
	mockOrders := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)

	uow := &mocks.MockUnitOfWork{
		Stores: repository.Stores{
			Products: mockProducts,
			Carts:    mockCarts,
			Orders:   mockOrders,
		},
	}

	service := NewOrderService(uow, mockOrders, mockPub)
	return service, uow, mockProducts, mockCarts, mockOrders, mockPub
}

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockProductRepository, *mocks.MockCartRepository, *mocks.MockOrderRepository)
		expectedError error
		expectedTotal float64
		checkStock    func(*testing.T, error)
	}{
		{
			name: "successful placement snapshots prices and clears the cart",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				cart := testCart(testCartID, testUserID, testCartItem(1, testCartID, testProductID, 3))
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(cart, nil)
				products.On("FindByID", mock.Anything, testProductID).Return(testProduct(testProductID, "Keyboard", 10.00, 5), nil)
				orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					order := args.Get(1).(*domain.Order)
					order.ID = 1
				})
				products.On("DecrementStock", mock.Anything, testProductID, 3).Return(true, nil)
				carts.On("DeleteItems", mock.Anything, testCartID).Return(nil)
			},
			expectedTotal: 30.00,
		},
		{
			name: "no cart fails with empty cart error",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(nil, nil)
			},
			expectedError: ErrEmptyCart,
		},
		{
			name: "cart with zero lines fails with empty cart error",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(testCart(testCartID, testUserID), nil)
			},
			expectedError: ErrEmptyCart,
		},
		{
			name: "missing product aborts the whole placement",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				cart := testCart(testCartID, testUserID, testCartItem(1, testCartID, testProductID, 1))
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(cart, nil)
				products.On("FindByID", mock.Anything, testProductID).Return(nil, nil)
			},
			expectedError: ErrProductNotFound,
		},
		{
			name: "inactive product aborts the whole placement",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				cart := testCart(testCartID, testUserID, testCartItem(1, testCartID, testProductID, 1))
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(cart, nil)
				inactive := testProduct(testProductID, "Keyboard", 10.00, 5)
				inactive.Active = false
				products.On("FindByID", mock.Anything, testProductID).Return(inactive, nil)
			},
			expectedError: ErrProductUnavailable,
		},
		{
			name: "insufficient stock aborts before any order is created",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				cart := testCart(testCartID, testUserID, testCartItem(1, testCartID, testProductID, 5))
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(cart, nil)
				products.On("FindByID", mock.Anything, testProductID).Return(testProduct(testProductID, "Keyboard", 10.00, 2), nil)
			},
			checkStock: func(t *testing.T, err error) {
				var stockErr *InsufficientStockError
				assert.ErrorAs(t, err, &stockErr)
				assert.Equal(t, testProductID, stockErr.ProductID)
				assert.Equal(t, "Keyboard", stockErr.Name)
				assert.Equal(t, 5, stockErr.Requested)
				assert.Equal(t, 2, stockErr.Available)
			},
		},
		{
			name: "concurrent decrement losing the race rolls back",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				cart := testCart(testCartID, testUserID, testCartItem(1, testCartID, testProductID, 2))
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(cart, nil)
				products.On("FindByID", mock.Anything, testProductID).Return(testProduct(testProductID, "Keyboard", 10.00, 2), nil)
				orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				products.On("DecrementStock", mock.Anything, testProductID, 2).Return(false, nil)
			},
			checkStock: func(t *testing.T, err error) {
				var stockErr *InsufficientStockError
				assert.ErrorAs(t, err, &stockErr)
				assert.Equal(t, testProductID, stockErr.ProductID)
			},
		},
		{
			name: "repository error propagates",
			setupMocks: func(products *mocks.MockProductRepository, carts *mocks.MockCartRepository, orders *mocks.MockOrderRepository) {
				carts.On("FindByUserWithItems", mock.Anything, testUserID).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, uow, mockProducts, mockCarts, mockOrders, mockPub := newOrderServiceUnderTest()
			uow.On("Do", mock.Anything).Return(nil)
			published := expectPublish(mockPub, "order.created")
			tt.setupMocks(mockProducts, mockCarts, mockOrders)

			order, err := service.PlaceOrder(context.Background(), testUserID, "1 Main St", "1 Main St")

			switch {
			case tt.checkStock != nil:
				assert.Error(t, err)
				tt.checkStock(t, err)
				assert.Nil(t, order)
			case tt.expectedError != nil:
				assert.Error(t, err)
				if errors.Is(tt.expectedError, ErrEmptyCart) || errors.Is(tt.expectedError, ErrProductNotFound) || errors.Is(tt.expectedError, ErrProductUnavailable) {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
				assert.Nil(t, order)
				mockOrders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, order)
				assert.Equal(t, tt.expectedTotal, order.TotalAmount)
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.Equal(t, testUserID, order.UserID)
				assert.NotEmpty(t, order.Number)
				assert.Len(t, order.Items, 1)
				assert.Equal(t, 10.00, order.Items[0].UnitPrice)
				assert.Equal(t, 3, order.Items[0].Quantity)
				mockCarts.AssertCalled(t, "DeleteItems", mock.Anything, testCartID)

				waitForPublish(t, published)
			}

			mockProducts.AssertExpectations(t)
			mockCarts.AssertExpectations(t)
			mockOrders.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestOrderService_PlaceOrder_TotalMatchesSnapshotSum(t *testing.T) {
	service, uow, mockProducts, mockCarts, mockOrders, mockPub := newOrderServiceUnderTest()
	uow.On("Do", mock.Anything).Return(nil)
	published := expectPublish(mockPub, "order.created")

	cart := testCart(testCartID, testUserID,
		testCartItem(1, testCartID, 100, 2),
		testCartItem(2, testCartID, 101, 4),
	)
	mockCarts.On("FindByUserWithItems", mock.Anything, testUserID).Return(cart, nil)
	mockProducts.On("FindByID", mock.Anything, uint64(100)).Return(testProduct(100, "Keyboard", 49.99, 10), nil)
	mockProducts.On("FindByID", mock.Anything, uint64(101)).Return(testProduct(101, "Mouse", 19.50, 10), nil)
	mockOrders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	mockProducts.On("DecrementStock", mock.Anything, uint64(100), 2).Return(true, nil)
	mockProducts.On("DecrementStock", mock.Anything, uint64(101), 4).Return(true, nil)
	mockCarts.On("DeleteItems", mock.Anything, testCartID).Return(nil)

	order, err := service.PlaceOrder(context.Background(), testUserID, "addr", "addr")
	assert.NoError(t, err)

	var sum float64
	for _, item := range order.Items {
		sum += float64(item.Quantity) * item.UnitPrice
	}
	assert.Equal(t, sum, order.TotalAmount)
	// The accumulated total and the constant expression associate differently,
	// so they can differ in the last bit. Compare within a tolerance.
	assert.InDelta(t, 2*49.99+4*19.50, order.TotalAmount, 1e-9)

	waitForPublish(t, published)
	mockProducts.AssertExpectations(t)
}

func TestOrderService_GetOrder(t *testing.T) {
	tests := []struct {
		name          string
		orderID       uint64
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError error
	}{
		{
			name:    "successful retrieval",
			orderID: 1,
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindWithItems", mock.Anything, uint64(1)).Return(&domain.Order{ID: 1, UserID: testUserID, Status: domain.StatusPending}, nil)
			},
		},
		{
			name:    "order not found",
			orderID: 999,
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindWithItems", mock.Anything, uint64(999)).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name:    "repository error",
			orderID: 1,
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.On("FindWithItems", mock.Anything, uint64(1)).Return(nil, errors.New("database connection error"))
			},
			expectedError: errors.New("database connection error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _, mockOrders, _ := newOrderServiceUnderTest()
			tt.setupMocks(mockOrders)

			order, err := service.GetOrder(context.Background(), tt.orderID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				assert.Equal(t, tt.orderID, order.ID)
			}
			mockOrders.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name          string
		current       domain.OrderStatus
		next          domain.OrderStatus
		expectedError error
	}{
		{"pending to processing", domain.StatusPending, domain.StatusProcessing, nil},
		{"processing to shipped", domain.StatusProcessing, domain.StatusShipped, nil},
		{"shipped to delivered", domain.StatusShipped, domain.StatusDelivered, nil},
		{"processing to cancelled", domain.StatusProcessing, domain.StatusCancelled, nil},
		{"pending to delivered is illegal", domain.StatusPending, domain.StatusDelivered, ErrInvalidStatusTransition},
		{"delivered to cancelled is illegal", domain.StatusDelivered, domain.StatusCancelled, ErrInvalidStatusTransition},
		{"shipped back to pending is illegal", domain.StatusShipped, domain.StatusPending, ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _, mockOrders, mockPub := newOrderServiceUnderTest()

			mockOrders.On("FindWithItems", mock.Anything, uint64(1)).Return(&domain.Order{ID: 1, UserID: testUserID, Status: tt.current}, nil)
			var published <-chan struct{}
			if tt.expectedError == nil {
				mockOrders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				published = expectPublish(mockPub, "order.status_changed")
			}

			order, err := service.UpdateOrderStatus(context.Background(), 1, tt.next)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				mockOrders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.next, order.Status)
				waitForPublish(t, published)
			}
			mockOrders.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderStatus_NotFound(t *testing.T) {
	service, _, _, _, mockOrders, _ := newOrderServiceUnderTest()
	mockOrders.On("FindWithItems", mock.Anything, uint64(42)).Return(nil, nil)

	order, err := service.UpdateOrderStatus(context.Background(), 42, domain.StatusProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, order)
}
