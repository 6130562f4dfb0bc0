package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"", LevelInfo},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarning},
		{"WARN", LevelWarning},
		{" error ", LevelError},
		{"fatal", LevelFatal},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	got, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, LevelInfo, got)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ERROR_SAMPLE_RATE", "10")
	t.Setenv("OTEL_ENABLED", "TRUE")
	t.Setenv("OTEL_SERVICE_NAME", "")

	s := settingsFromEnv()
	assert.Equal(t, LevelDebug, s.level)
	assert.Equal(t, int32(10), s.sampleRate)
	assert.True(t, s.otel)
	assert.Equal(t, defaultServiceName, s.serviceName)

	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("ERROR_SAMPLE_RATE", "-3")
	t.Setenv("OTEL_ENABLED", "")
	s = settingsFromEnv()
	assert.Equal(t, LevelInfo, s.level)
	assert.Equal(t, int32(1), s.sampleRate)
	assert.False(t, s.otel)
}

func TestCounters(t *testing.T) {
	before := Stats()

	CountHTTPStatus(200)
	CountHTTPStatus(422)
	CountHTTPStatus(429)
	CountHTTPStatus(500)
	CountPrediction()
	Warn("counted warning")
	Error("counted error")

	after := Stats()
	assert.Equal(t, before.Warnings+3, after.Warnings)
	assert.Equal(t, before.Errors+2, after.Errors)
	assert.Equal(t, before.Predictions+1, after.Predictions)
}
