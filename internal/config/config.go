// Package config loads the server's settings from the environment, after
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/liamcoop/churn/classifier"
)

// Review table layouts
const (
	LayoutSplit  = "split"
	LayoutSingle = "single"
)

// Tenure entry widgets
const (
	WidgetSlider  = "slider"
	WidgetStepper = "stepper"
)

// Config holds everything main needs to build the server
type Config struct {
	Port             string
	ModelPath        string
	LogLevel         string
	ReviewLayout     string
	TenureWidget     string
	PredictRateLimit float64
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:             "8080",
		ModelPath:        classifier.DefaultPath,
		LogLevel:         "INFO",
		ReviewLayout:     LayoutSplit,
		TenureWidget:     WidgetSlider,
		PredictRateLimit: 20,
	}
}

// Load reads .env files (missing files are fine) and then the environment
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read env file: %w", err)
	}

	cfg := Default()
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := strings.ToLower(os.Getenv("REVIEW_LAYOUT")); v != "" {
		if v != LayoutSplit && v != LayoutSingle {
			return Config{}, fmt.Errorf("REVIEW_LAYOUT must be %q or %q, got %q", LayoutSplit, LayoutSingle, v)
		}
		cfg.ReviewLayout = v
	}
	if v := strings.ToLower(os.Getenv("TENURE_WIDGET")); v != "" {
		if v != WidgetSlider && v != WidgetStepper {
			return Config{}, fmt.Errorf("TENURE_WIDGET must be %q or %q, got %q", WidgetSlider, WidgetStepper, v)
		}
		cfg.TenureWidget = v
	}
	if v := os.Getenv("PREDICT_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return Config{}, fmt.Errorf("PREDICT_RATE_LIMIT must be a non-negative number, got %q", v)
		}
		cfg.PredictRateLimit = limit
	}

	return cfg, nil
}

// SplitReview reports whether the review table uses two columns
func (c Config) SplitReview() bool {
	return c.ReviewLayout != LayoutSingle
}
