package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerline/bank/api-gateway/internal/proxy"
	"github.com/ledgerline/bank/shared/config"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/middleware"
	"github.com/ledgerline/bank/shared/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Config{
		ServiceName: "api-gateway",
		Port:        "8080",
		Remote: config.RemoteConfig{
			AuthServiceURL:        "http://localhost:8081",
			CustomerServiceURL:    "http://localhost:8082",
			AccountServiceURL:     "http://localhost:8083",
			TransactionServiceURL: "http://localhost:8084",
		},
	})
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := &http.Client{Timeout: cfg.Remote.Timeout}
	authSvc := proxy.To(client, cfg.Remote.AuthServiceURL)
	customerSvc := proxy.To(client, cfg.Remote.CustomerServiceURL)
	accountSvc := proxy.To(client, cfg.Remote.AccountServiceURL)
	transactionSvc := proxy.To(client, cfg.Remote.TransactionServiceURL)
	auth := middleware.AuthMiddleware([]byte(cfg.JWTSecret))

	router := server.NewRouter(cfg.ServiceName)

	// Auth routes (no authentication required)
	router.POST("/v1/auth/login", authSvc)
	router.POST("/v1/auth/refresh", authSvc)

	// Client routes
	router.POST("/v1/clients", customerSvc) // No auth for registration
	router.GET("/v1/clients", auth, customerSvc)
	router.GET("/v1/clients/:id", auth, customerSvc)
	router.PUT("/v1/clients/:id", auth, customerSvc)
	router.DELETE("/v1/clients/:id", auth, customerSvc)

	// Account routes
	router.POST("/v1/accounts", auth, accountSvc)
	router.GET("/v1/accounts", auth, accountSvc)
	router.GET("/v1/accounts/:id", auth, accountSvc)
	router.PUT("/v1/accounts/:id", auth, accountSvc)
	router.DELETE("/v1/accounts/:id", auth, accountSvc)

	// Ledger routes
	router.POST("/v1/transactions", auth, transactionSvc)
	router.GET("/v1/transactions", auth, transactionSvc)
	router.GET("/v1/transactions/reports", auth, transactionSvc)
	router.GET("/v1/transactions/:id", auth, transactionSvc)
	router.PUT("/v1/transactions/:id", auth, transactionSvc)
	router.DELETE("/v1/transactions/:id", auth, transactionSvc)

	logger.Info("api gateway starting", logger.Fields{
		"port":          cfg.Port,
		"authRequired":  cfg.JWTSecret != "",
		"remoteTimeout": cfg.Remote.Timeout.String(),
	})
	if err := server.Run(ctx, ":"+cfg.Port, router); err != nil {
		log.Fatalf("API gateway stopped: %v", err)
	}
}
