package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := Init(Options{Level: "info", Format: "json", Component: "test", Writer: &buf})

	l.Debug().Msg("hidden")
	l.Info().Str("name", "Alice").Msg("marked")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "marked", entry["message"])
	assert.Equal(t, "Alice", entry["name"])
	assert.Equal(t, "test", entry["component"])

	buf.Reset()
	Get().Info().Msg("again")
	assert.Contains(t, buf.String(), "again")
}
