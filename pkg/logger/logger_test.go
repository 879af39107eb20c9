package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/pkg/logger"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(line, &m))
	return m
}

func TestNewWithExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithExtractors(requestID, nil))

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "handled", slog.Int("status", 200))

	rec := decode(t, buf.Bytes())
	require.Equal(t, "handled", rec["msg"])
	require.Equal(t, "req-1", rec["request_id"])
	require.InDelta(t, 200, rec["status"], 0)

	buf.Reset()
	log.Info("no context")
	require.NotContains(t, decode(t, buf.Bytes()), "request_id")
}

func TestNewLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Warn("kept")
	require.NotZero(t, buf.Len())
}

func TestNewWithFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	log := logger.New(logger.WithOutput(&buf), logger.WithFile(path)).With(slog.String("svc", "notes"))
	log.Info("to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "notes", decode(t, bytes.TrimSpace(data))["svc"])
	require.Equal(t, "notes", decode(t, buf.Bytes())["svc"])
}

func TestNewWithoutSentryDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithSentry("", "test"))
	log.Error("still logged")
	require.Equal(t, "still logged", decode(t, buf.Bytes())["msg"])
}

func TestNewNope(t *testing.T) {
	t.Parallel()
	require.False(t, logger.NewNope().Enabled(context.Background(), slog.LevelError))
}
