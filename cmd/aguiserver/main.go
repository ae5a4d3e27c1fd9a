// Package main provides a reference AG-UI HTTP server that streams model
// responses from Anthropic, OpenAI, or Google as AG-UI protocol events
// over Server-Sent Events (SSE).
//
// Configuration is via environment variables:
//
//	AGUI_PORT         - Server port (default: 8000)
//	AGUI_LOG_LEVEL    - Log level: debug, info, warn, error (default: info)
//	AGUI_PROVIDER     - Provider: anthropic, openai, or google (required)
//	AGUI_MODEL        - Model override (optional, uses provider default)
//	AGUI_MAX_TOKENS   - Max output tokens (default: 4096)
//	AGUI_TIMEOUT      - Per-run timeout (default: 2m)
//	ANTHROPIC_API_KEY - Anthropic API key
//	OPENAI_API_KEY    - OpenAI API key
//	GOOGLE_API_KEY    - Google API key
//
// Usage:
//
//	AGUI_PROVIDER=anthropic go run ./cmd/aguiserver
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	setupLogging(cfg.LogLevel)

	agent, err := createAgent(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	handler := NewAgentHandler(agent, cfg)

	mux := http.NewServeMux()
	mux.Handle("/api/agent", corsMiddleware(handler))
	mux.HandleFunc("/health", healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("AG-UI server starting",
		"port", cfg.Port,
		"provider", cfg.Provider,
		"endpoint", fmt.Sprintf("POST http://localhost:%s/api/agent", cfg.Port),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	slog.Info("server stopped")
}

func createAgent(ctx context.Context, cfg *Config) (ChatAgent, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicAgent(cfg), nil
	case "openai":
		return newOpenAIAgent(cfg), nil
	case "google":
		return newGoogleAgent(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
