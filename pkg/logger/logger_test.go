package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledgerbook-api/pkg/logger"
)

func TestFor_AgregaRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "debug", Output: &buf}).Component("voucher")
	ctx := logger.WithRequestID(context.Background(), "req-42")

	log.For(ctx).Info().Str("voucher_number", "SAL-0001").Msg("comprobante creado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "voucher", line["component"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "SAL-0001", line["voucher_number"])
	assert.Equal(t, "info", line["level"])
}

func TestFor_SinRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	log.For(context.Background()).Info().Msg("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "request_id")
}

func TestNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}
