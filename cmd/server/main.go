package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"store-service/internal/config"
	controllers "store-service/internal/controllers/http"
	"store-service/internal/infra/mysql"
	"store-service/internal/infra/rabbitmq"
	"store-service/internal/infra/redis"
	mysqlrepo "store-service/internal/repository/mysql"
	"store-service/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	db, err := mysql.New(cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	productRepo := mysqlrepo.NewProductRepository(db)
	categoryRepo := mysqlrepo.NewCategoryRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db)
	reviewRepo := mysqlrepo.NewReviewRepository(db)
	uow := mysqlrepo.NewUnitOfWork(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	redisClient := redis.New(cfg.RedisAddr)

	userService := services.NewUserService(userRepo, cfg.JWTSecret)
	catalogService := services.NewCatalogService(productRepo, categoryRepo)
	if redisClient != nil {
		catalogService.SetRedisClient(redisClient)
	}
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(uow, orderRepo, publisher)
	reviewService := services.NewReviewService(reviewRepo, productRepo)

	handler := controllers.NewHandler(userService, catalogService, cartService, orderService, reviewService, redisClient, cfg.JWTSecret)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting store service on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
