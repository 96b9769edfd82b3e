package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurumindfulness/nuru/backend/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestInitWritesToFile(t *testing.T) {
	req := require.New(t)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "relay.log")
	logger, err := Init(config.LogConfig{Level: "debug", Format: "json", File: path})
	req.NoError(err)

	logger.Debug("relay ready", "port", 3001)

	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Contains(string(data), `"msg":"relay ready"`)
	req.Contains(string(data), `"port":3001`)
}
