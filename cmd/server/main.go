package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/openbilling/invoiceledger/internal/auth"
	"github.com/openbilling/invoiceledger/internal/middleware"
	"github.com/openbilling/invoiceledger/internal/service"
	"github.com/openbilling/invoiceledger/internal/storage/sqlite"
	"github.com/openbilling/invoiceledger/internal/web"
	"github.com/openbilling/invoiceledger/pkg/logging"
)

const defaultTokenTTL = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/invoiceledger.db")
	port := getEnv("PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	tokenTTL := defaultTokenTTL
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			slog.Error("Invalid TOKEN_TTL", "value", ttl, "error", err)
			os.Exit(1)
		}
		tokenTTL = parsed
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	handler := web.NewHandler(
		service.NewAuthService(authenticator, jwtManager),
		service.NewCatalogService(store),
		service.NewCustomerService(store),
		service.NewInvoiceService(store),
		service.NewDashboardService(store),
		jwtManager,
	)

	mux := handler.Routes()
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware order: logging wraps everything, then CORS, then
	// metrics closest to the mux so it sees the matched route pattern.
	var root http.Handler = mux
	root = middleware.Metrics(root)
	root = middleware.CORS(root)
	root = middleware.Logging(root)

	// h2c allows HTTP/2 without TLS for deployments behind a
	// TLS-terminating proxy.
	h2cHandler := h2c.NewHandler(root, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
