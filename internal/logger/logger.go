// Package logger is the process-wide slog logger. Records go to stdout as
// JSON, or to an OTLP collector when OTEL_ENABLED=true.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const defaultServiceName = "churn-form"

type Level = slog.Level

const (
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
	LevelFatal   = slog.Level(12)
)

var (
	Logger     *slog.Logger
	level      = new(slog.LevelVar)
	sampleRate atomic.Int32
	flush      func(context.Context) error
)

// settings are read once from the environment at startup
type settings struct {
	level       Level
	sampleRate  int32
	otel        bool
	serviceName string
}

func settingsFromEnv() settings {
	s := settings{level: LevelInfo, sampleRate: 1, serviceName: defaultServiceName}
	if l, err := ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		s.level = l
	}
	if n, err := strconv.Atoi(os.Getenv("ERROR_SAMPLE_RATE")); err == nil && n > 0 {
		s.sampleRate = int32(n)
	}
	s.otel = strings.EqualFold(os.Getenv("OTEL_ENABLED"), "true")
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		s.serviceName = name
	}
	return s
}

func init() {
	s := settingsFromEnv()
	level.Set(s.level)
	sampleRate.Store(s.sampleRate)

	handler := slog.Handler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	if s.otel {
		otelHandler, shutdown, err := newOTELHandler(context.Background(), s.serviceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to setup OTEL logging, falling back to JSON: %v\n", err)
		} else {
			handler, flush = otelHandler, shutdown
		}
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// newOTELHandler exports records over OTLP/gRPC through the slog bridge
func newOTELHandler(ctx context.Context, serviceName string) (slog.Handler, func(context.Context) error, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}
	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	bridge := otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider))
	return &leveled{min: level, next: bridge}, provider.Shutdown, nil
}

// leveled drops records below min before they reach next, which has no
// level of its own
type leveled struct {
	min  slog.Leveler
	next slog.Handler
}

func (h *leveled) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.min.Level()
}

func (h *leveled) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *leveled) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveled{min: h.min, next: h.next.WithAttrs(attrs)}
}

func (h *leveled) WithGroup(name string) slog.Handler {
	return &leveled{min: h.min, next: h.next.WithGroup(name)}
}

// Shutdown flushes the OTEL exporter, if one is running
func Shutdown(ctx context.Context) error {
	if flush == nil {
		return nil
	}
	return flush(ctx)
}

func SetLevel(l Level) {
	level.Set(l)
}

// ParseLevel converts a level name to a Level. An empty name is INFO.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level: %s (defaulting to INFO)", name)
}

// sampled reports whether this warning or error line should be written.
// With ERROR_SAMPLE_RATE=n roughly one line in n is kept.
func sampled() bool {
	n := sampleRate.Load()
	return n <= 1 || rand.Intn(int(n)) == 0
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	warnings.Add(1)
	if sampled() {
		Logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	errorCount.Add(1)
	if sampled() {
		Logger.Error(msg, args...)
	}
}

// Fatal logs unconditionally, flushes OTEL and exits with status 1
func Fatal(msg string, args ...any) {
	Logger.Log(context.Background(), LevelFatal, msg, args...)
	_ = Shutdown(context.Background())
	os.Exit(1)
}
