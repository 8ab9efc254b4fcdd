package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/pkg/logger"
)

func TestNew_ProductionWritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "warehouse-ledger", Output: &buf})

	cl := l.Component("ledger")
	cl.Info().Int64("product_id", 7).Msg("movimiento registrado")
	l.Debug().Msg("no debe aparecer")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "warehouse-ledger", entry["service"])
	assert.Equal(t, "movimiento registrado", entry["message"])
	assert.EqualValues(t, 7, entry["product_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verbose"))
}
