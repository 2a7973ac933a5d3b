package logging

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/config"
	"github.com/google/uuid"
)

func Setup(cfg config.LogConfig) {
	var level slog.Level

	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		log.Fatalf("Invalid LogConfig.Level value: %s", cfg.Level)
	}

	options := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler

	switch cfg.Style {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, options)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, options)
	default:
		log.Fatalf("Invalid LogConfig.Style value: %s", cfg.Style)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

type loggerContextKey struct{}

var loggerKey = loggerContextKey{}

func GetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerKey).(*slog.Logger)
	if !ok {
		// Handlers run behind the middleware; a miss is a wiring bug.
		return slog.Default()
	}

	return logger
}

func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := uuid.NewString()

			logger := slog.Default().With(
				slog.Group("request",
					slog.String("id", requestID),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				),
			)

			ctx := context.WithValue(r.Context(), loggerKey, logger)
			r = r.WithContext(ctx)

			logger.Info("Request started")

			rec := &responseRecorder{
				ResponseWriter: w,
				request:        r,
			}

			next.ServeHTTP(rec, r)

			logger.Info("Request completed",
				slog.Group("response",
					slog.Int("status", rec.status),
					slog.Int("size", rec.bytes),
				),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
