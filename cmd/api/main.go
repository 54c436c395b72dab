// Storefront API: accounts, catalog, cart, reviews, orders with status
// tracking, and the admin console.
//
//	@title        Storefront API
//	@version      1.0
//	@BasePath     /
//	@securityDefinitions.apikey BearerAuth
//	@in   header
//	@name Authorization
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mercadero/storefront/docs"
	"github.com/mercadero/storefront/internal/cart"
	"github.com/mercadero/storefront/internal/config"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/notify"
	"github.com/mercadero/storefront/internal/order"
	"github.com/mercadero/storefront/internal/product"
	"github.com/mercadero/storefront/internal/realtime"
	"github.com/mercadero/storefront/internal/review"
	"github.com/mercadero/storefront/internal/user"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	cancel()
	if err != nil {
		slog.Error("could not open postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()

	users := user.NewPGRepo(pool)
	products := product.NewPGRepo(pool)
	reviews := review.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	carts := cart.NewRedisStore(rdb, cfg.CartTTL)

	var mailer notify.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey)
	} else {
		slog.Warn("RESEND_API_KEY not set, email will be logged only")
		mailer = notify.LogMailer{}
	}
	dispatcher := notify.NewDispatcher(logger)
	notifier := notify.NewNotifier(mailer, dispatcher, users, cfg.FromEmail, cfg.OperatorEmail, logger)

	hub := realtime.NewHub()
	orderSvc := order.NewService(orders, products, users, notifier, hub, logger)

	r := newRouter(cfg, users, products, reviews, carts, orderSvc, hub)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("api listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	// Let in-flight email finish before the process exits.
	dispatcher.Wait()
	slog.Info("bye")
}

func newRouter(
	cfg config.Config,
	users user.Repository,
	products product.Repository,
	reviews review.Repository,
	carts cart.Store,
	orderSvc *order.Service,
	hub *realtime.Hub,
) *gin.Engine {
	dev := cfg.Development()
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/register", registerHandler(users, dev))
	r.POST("/auth/login", loginHandler(users, cfg.JWTSecret, cfg.TokenTTL, dev))

	r.GET("/products", listProductsHandler(products, dev))
	r.GET("/products/:id", getProductHandler(products, dev))
	r.GET("/products/:id/reviews", listReviewsHandler(reviews, dev))

	// Public order tracking: lookup plus the live status stream.
	r.GET("/track/:orderNumber", trackOrderHandler(orderSvc, dev))
	r.GET("/ws/orders/:id", realtime.ServeOrder(hub))

	auth := r.Group("/", httpx.Auth(cfg.JWTSecret))
	{
		auth.GET("/auth/me", meHandler(users, dev))

		auth.GET("/cart", getCartHandler(carts, dev))
		auth.PUT("/cart/items", putCartItemHandler(carts, products, dev))
		auth.DELETE("/cart/items/:key", deleteCartItemHandler(carts, dev))
		auth.DELETE("/cart", clearCartHandler(carts, dev))

		auth.POST("/products/:id/reviews", createReviewHandler(reviews, products, dev))

		auth.POST("/orders", createOrderHandler(orderSvc, dev))
		auth.GET("/orders", listMyOrdersHandler(orderSvc, dev))
		auth.GET("/orders/:id", getOrderHandler(orderSvc, dev))
	}

	admin := r.Group("/admin", httpx.Auth(cfg.JWTSecret), httpx.RequireAdmin())
	{
		admin.GET("/orders", adminListOrdersHandler(orderSvc, dev))
		admin.PUT("/orders/:id/status", updateOrderStatusHandler(orderSvc, dev))
		admin.PATCH("/orders/:id/notes", updateOrderNotesHandler(orderSvc, dev))

		admin.POST("/products", createProductHandler(products, dev))
		admin.PUT("/products/:id", updateProductHandler(products, dev))
		admin.DELETE("/products/:id", deleteProductHandler(products, dev))

		admin.DELETE("/reviews/:id", deleteReviewHandler(reviews, dev))
	}

	return r
}
