package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/anreach/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNewWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWriter(&buf, slog.LevelInfo)
	log.Info("solver failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "error=")
}

func TestForDebugLevel(t *testing.T) {
	ctx := t.Context()
	assert.False(t, logging.ForDebugLevel(0).Enabled(ctx, slog.LevelError))
	assert.True(t, logging.ForDebugLevel(1).Enabled(ctx, slog.LevelInfo))
	assert.False(t, logging.ForDebugLevel(1).Enabled(ctx, slog.LevelDebug))
	assert.True(t, logging.ForDebugLevel(2).Enabled(ctx, slog.LevelDebug))
}
