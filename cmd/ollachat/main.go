package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/config"
	"github.com/ollachat/ollachat/internal/domain"
	kvRedis "github.com/ollachat/ollachat/internal/kv/redis"
	logpkg "github.com/ollachat/ollachat/internal/logger"
	"github.com/ollachat/ollachat/internal/metrics"
	"github.com/ollachat/ollachat/internal/ollama"
	"github.com/ollachat/ollachat/internal/store"
	"github.com/ollachat/ollachat/internal/transport/httpapi"
	chatuc "github.com/ollachat/ollachat/internal/usecase/chat"
	"github.com/ollachat/ollachat/internal/version"
	"github.com/ollachat/ollachat/internal/webseek"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ollachat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("ollama_base_url", cfg.Ollama.BaseURL),
		zap.Bool("brave_enabled", cfg.Search.BraveAPIKey != ""),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Inference backend client
	backend := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Logger:  logger,
	})

	// Search provider chain — composition root
	searcher := buildSearcher(cfg.Search, logger)

	chatSvc := chatuc.New(backendAdapter{backend}, searcher, logger)

	conversations, err := store.NewFileStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("Failed to create conversation store", zap.Error(err))
	}

	server := httpapi.NewServer(chatSvc, backend, conversations, logger)

	r := chi.NewRouter()
	r.Use(plainRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		// No WriteTimeout: chat responses stream for as long as the
		// model generates.
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// backendAdapter narrows *ollama.Client to the chat usecase contract.
type backendAdapter struct {
	client *ollama.Client
}

func (b backendAdapter) Chat(ctx context.Context, model string, messages []domain.Message) (chatuc.TokenStream, error) {
	stream, err := b.client.Chat(ctx, model, messages)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// buildSearcher assembles the provider chain in priority order and, when
// configured, wraps it in the Redis-backed cache.
func buildSearcher(cfg config.SearchConfig, logger *zap.Logger) chatuc.Searcher {
	client := &http.Client{Timeout: time.Duration(cfg.ProviderTimeoutSec) * time.Second}

	providers := make([]webseek.Provider, 0, 5)
	if cfg.BraveAPIKey != "" {
		providers = append(providers, webseek.NewBrave(cfg.BraveAPIKey, client, cfg.MaxResults))
	}
	providers = append(providers,
		webseek.NewWikipedia(client, cfg.MaxResults),
		webseek.NewDuckDuckGo(client, cfg.MaxResults),
		webseek.NewBing(client, cfg.MaxResults),
		webseek.NewNews(client, cfg.MaxResults),
	)

	timeout := time.Duration(cfg.ProviderTimeoutSec) * time.Second
	var searcher chatuc.Searcher = webseek.NewOrchestrator(providers, timeout, logger)

	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err := kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Warn("Search cache disabled: failed to create store", zap.Error(err))
			return searcher
		}
		searcher = webseek.NewCachedSearcher(
			searcher, cacheStore,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.SearchCacheTotal, logger,
		)
		logger.Info("Search cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	return searcher
}

// plainRecoverer is a recovery middleware that returns a short plain
// text body instead of a stacktrace.
func plainRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = io.WriteString(w, "Error processing request")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
