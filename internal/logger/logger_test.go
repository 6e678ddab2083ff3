package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/bestsellers-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerService_WithoutLicenseKey(t *testing.T) {
	service := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)
}

func TestNewLogger_JSONFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	logger := newLogger(cfg, nil, &buf)

	logger.Info().Str("isbn", "9781649374042").Msg("lookup")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "production", entry["environment"])
	assert.Equal(t, "9781649374042", entry["isbn"])
	assert.Equal(t, "lookup", entry["message"])
}

func TestNewLogger_LevelThreshold(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	logger := newLogger(cfg, nil, &buf)

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	logger := WithTraceContext(base, nil)
	logger.Info().Msg("no trace")

	assert.NotContains(t, buf.String(), "trace.id")
}
