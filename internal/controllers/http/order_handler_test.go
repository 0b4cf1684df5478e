package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"store-service/internal/domain"
	"store-service/internal/mocks"
	"store-service/internal/repository"
	"store-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// commandRecorder short-circuits every redis command and records it, so tests
// can assert on cache traffic without a live server.
type commandRecorder struct {
	commands *[]string
}

func (r commandRecorder) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (r commandRecorder) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		*r.commands = append(*r.commands, fmt.Sprint(cmd.Args()))
		return nil
	}
}

func (r commandRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func recordingRedisClient() (*redis.Client, *[]string) {
	commands := &[]string{}
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	client.AddHook(commandRecorder{commands: commands})
	return client, commands
}

func placementMocks(t *testing.T) (*services.OrderService, *services.CatalogService) {
	t.Helper()

	mockProducts := new(mocks.MockProductRepository)
	mockCarts := new(mocks.MockCartRepository)
	mockOrders := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)
	uow := &mocks.MockUnitOfWork{
		Stores: repository.Stores{Products: mockProducts, Carts: mockCarts, Orders: mockOrders},
	}

	uow.On("Do", mock.Anything).Return(nil)
	mockPub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()

	cart := &domain.Cart{ID: 10, UserID: 1, Items: []domain.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 2},
		{ID: 2, CartID: 10, ProductID: 101, Quantity: 1},
	}}
	mockCarts.On("FindByUserWithItems", mock.Anything, uint64(1)).Return(cart, nil)
	mockProducts.On("FindByID", mock.Anything, uint64(100)).
		Return(&domain.Product{ID: 100, Name: "Keyboard", Price: 59.90, StockQuantity: 5, Active: true}, nil)
	mockProducts.On("FindByID", mock.Anything, uint64(101)).
		Return(&domain.Product{ID: 101, Name: "Mouse", Price: 10.00, StockQuantity: 5, Active: true}, nil)
	mockOrders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	mockProducts.On("DecrementStock", mock.Anything, uint64(100), 2).Return(true, nil)
	mockProducts.On("DecrementStock", mock.Anything, uint64(101), 1).Return(true, nil)
	mockCarts.On("DeleteItems", mock.Anything, uint64(10)).Return(nil)

	return services.NewOrderService(uow, mockOrders, mockPub),
		services.NewCatalogService(mockProducts, new(mocks.MockCategoryRepository))
}

func placeOrderContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(PlaceOrderRequest{ShippingAddress: "1 Main St", BillingAddress: "1 Main St"})
	assert.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(ctxUserIDKey, uint64(1))
	return c, w
}

func TestPlaceOrder_InvalidatesCachedProducts(t *testing.T) {
	orders, catalog := placementMocks(t)
	rdb, commands := recordingRedisClient()
	catalog.SetRedisClient(rdb)
	h := NewHandler(nil, catalog, nil, orders, nil, rdb, "secret")

	c, w := placeOrderContext(t)
	h.PlaceOrder(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, *commands, "[del product:100]")
	assert.Contains(t, *commands, "[del product:101]")
}

func TestPlaceOrder_WorksWithoutRedis(t *testing.T) {
	orders, catalog := placementMocks(t)
	h := NewHandler(nil, catalog, nil, orders, nil, nil, "secret")

	c, w := placeOrderContext(t)
	h.PlaceOrder(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp OrderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
}
