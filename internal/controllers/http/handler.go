package http

import (
	"store-service/internal/domain"
	"store-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	users     *services.UserService
	catalog   *services.CatalogService
	carts     *services.CartService
	orders    *services.OrderService
	reviews   *services.ReviewService
	rdb       *redis.Client
	jwtSecret string
}

func NewHandler(
	users *services.UserService,
	catalog *services.CatalogService,
	carts *services.CartService,
	orders *services.OrderService,
	reviews *services.ReviewService,
	rdb *redis.Client,
	jwtSecret string,
) *Handler {
	return &Handler{
		users:     users,
		catalog:   catalog,
		carts:     carts,
		orders:    orders,
		reviews:   reviews,
		rdb:       rdb,
		jwtSecret: jwtSecret,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", RateLimiter(h.rdb), h.Register)
	r.POST("/login", RateLimiter(h.rdb), h.Login)

	r.GET("/products", h.SearchProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/products/:id/reviews", h.ListProductReviews)
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:id/products", h.ListProductsByCategory)

	authorized := r.Group("/", RequireAuth(h.jwtSecret))
	{
		authorized.GET("/me", h.Me)

		authorized.GET("/cart", h.GetCart)
		authorized.POST("/cart/items", h.AddCartItem)
		authorized.PUT("/cart/items/:productId", h.UpdateCartItem)
		authorized.DELETE("/cart/items/:productId", h.RemoveCartItem)
		authorized.DELETE("/cart", h.ClearCart)

		authorized.POST("/orders", h.PlaceOrder)
		authorized.GET("/orders", h.ListMyOrders)
		authorized.GET("/orders/:id", h.GetOrder)

		authorized.POST("/products/:id/reviews", h.AddReview)
	}

	staff := authorized.Group("/", RequireRole(domain.RoleManager, domain.RoleAdmin))
	{
		staff.POST("/products", h.CreateProduct)
		staff.PUT("/products/:id", h.UpdateProduct)
		staff.DELETE("/products/:id", h.DeactivateProduct)
		staff.POST("/categories", h.CreateCategory)
		staff.PUT("/categories/:id", h.UpdateCategory)
		staff.GET("/admin/orders", h.ListOrdersByStatus)
		staff.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}
}
