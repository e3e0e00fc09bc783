package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/auth"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/cart"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/catalog"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/chatwidget"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/config"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/contact"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
	httpserver "github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/http"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/kv"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/logging"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/order"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/report"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/user"
)

func main() {
	cfg := config.Load()
	logger := logging.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Migrate(cfg.DatabaseDSN); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var storage kv.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		storage = kv.NewRedis(client)
		logger.Info("using redis storage", "addr", cfg.RedisAddr)
	} else {
		storage = kv.NewMemory()
		logger.Warn("REDIS_ADDR not set, carts and widget config will not survive restarts")
	}

	catalogRepo := catalog.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)
	userRepo := user.NewPostgresRepository(pool)
	accountRepo := auth.NewPostgresAccountRepository(pool)
	sessionRepo := auth.NewPostgresSessionRepository(pool)
	contactRepo := contact.NewPostgresRepository(pool)
	reportRepo := report.NewPostgresRepository(pool)

	orderSvc := order.NewService(orderRepo, logger)
	authSvc := auth.NewService(accountRepo, sessionRepo, userRepo, cfg.SessionTTL, logger)
	carts := cart.NewStore(storage, logger)
	widget := chatwidget.NewService(storage, logger)

	gate := httpserver.NewGate(authSvc, userRepo)

	router := httpserver.NewRouter(httpserver.Handlers{
		Catalog: httpserver.NewCatalogHandler(catalogRepo, logger),
		Cart:    httpserver.NewCartHandler(carts),
		Orders:  httpserver.NewOrderHandler(orderSvc, orderRepo, carts, logger),
		Auth:    httpserver.NewAuthHandler(authSvc, userRepo, logger),
		Contact: httpserver.NewContactHandler(contactRepo, logger),
		Widget:  httpserver.NewWidgetHandler(widget),
		Admin:   httpserver.NewAdminHandler(catalogRepo, userRepo, reportRepo, widget, authSvc, logger),
		Gate:    gate,
	}, cfg.CORSAllowOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info("storefront listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
