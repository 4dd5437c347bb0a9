package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/askhat-b/partforge/internal/auth"
	"github.com/askhat-b/partforge/internal/config"
	"github.com/askhat-b/partforge/internal/logger"
	"github.com/askhat-b/partforge/internal/model"
	"github.com/askhat-b/partforge/internal/notify"
	"github.com/askhat-b/partforge/internal/payment"
	"github.com/askhat-b/partforge/internal/pricing"
	"github.com/askhat-b/partforge/internal/quote"
	"github.com/askhat-b/partforge/internal/server"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := model.NewStore(cfg.Storage, quote.NewAllocator(), logg)
	if err != nil {
		logg.Fatal("init storage", zap.Error(err))
	}

	modelService := model.NewService(store, cfg.Storage.MaxFileSize)
	authService := auth.NewService(cfg.Auth)

	pricingClient := pricing.NewClient(cfg.Pricing)
	quoteService := pricing.NewService(modelService, pricingClient, logg)

	paymentClient := payment.NewClient(cfg.Payment)
	notifyClient := notify.NewClient(cfg.Notify)
	paymentService := payment.NewService(paymentClient, modelService, notifyClient, cfg.Payment.WebhookSecret, logg)

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		Logger:         logg,
		Store:          store,
		AuthService:    authService,
		ModelService:   modelService,
		QuoteService:   quoteService,
		PaymentService: paymentService,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("PartForge API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
