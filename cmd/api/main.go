package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audio-mixing-backend/config"
	"audio-mixing-backend/internal/cache"
	"audio-mixing-backend/internal/database"
	"audio-mixing-backend/internal/handlers"
	"audio-mixing-backend/internal/hashing"
	"audio-mixing-backend/internal/logger"
	"audio-mixing-backend/internal/payment"
	"audio-mixing-backend/internal/producer"
	"audio-mixing-backend/internal/repository"
	"audio-mixing-backend/internal/router"
	"audio-mixing-backend/internal/service"
	"audio-mixing-backend/internal/token"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var publisher service.EmailPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		emailProducer := producer.NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.EmailTopic)
		defer emailProducer.Close()
		publisher = emailProducer
	} else {
		log.Warn("no kafka brokers configured, email publishing disabled")
	}
	notifier := service.NewNotifier(publisher, repos.Users, cfg.AdminEmail, log)

	var limiter service.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		limiter = redisClient
	} else {
		log.Warn("redis not configured, rate limiting disabled")
	}

	stripeClient := payment.NewStripeClient(cfg.Stripe.SecretKey, log)
	paypalClient, err := payment.NewPayPalClient(cfg.PayPal.ClientID, cfg.PayPal.Secret, cfg.PayPal.Mode, log)
	if err != nil {
		log.Fatal("paypal client failed", zap.Error(err))
	}

	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	hasher := hashing.NewBcrypt(0)

	authSvc := service.NewAuthService(repos, hasher, tokens, limiter, notifier, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, log)
	checkoutSvc := service.NewCheckoutService(repos, stripeClient, paypalClient, limiter, notifier, cfg.FrontendURL, log)
	orderSvc := service.NewOrderService(repos, notifier, log)
	revisionSvc := service.NewRevisionService(repos, notifier, log)
	cartSvc := service.NewCartService(repos, log)
	catalogSvc := service.NewCatalogService(repos, log)
	blogSvc := service.NewBlogService(repos, log)

	engine := router.Router(router.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc, log),
		Checkout: handlers.NewCheckoutHandler(checkoutSvc, log),
		Webhook:  handlers.NewWebhookHandler(checkoutSvc, repos, cfg.Stripe.WebhookSecret, log),
		Orders:   handlers.NewOrderHandler(orderSvc, log),
		Revision: handlers.NewRevisionHandler(revisionSvc, log),
		Cart:     handlers.NewCartHandler(cartSvc, log),
		Catalog:  handlers.NewCatalogHandler(catalogSvc, log),
		Blog:     handlers.NewBlogHandler(blogSvc, log),
	}, tokens, log)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
