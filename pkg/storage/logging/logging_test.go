package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	log := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	log.Info(context.Background(), "node started", "peer", "16Uiu2HAmTest")

	out := buf.String()
	assert.Contains(t, out, "node started")
	assert.Contains(t, out, "16Uiu2HAmTest")
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(slog.New(slog.NewTextHandler(&buf, nil)))

	log.With("component", "node").Warn(context.Background(), "engine call abandoned")

	assert.Contains(t, buf.String(), "component=node")
}

func TestNilBindsToDefault(t *testing.T) {
	assert.NotNil(t, New(nil))
}

func TestRedacted(t *testing.T) {
	attr := Redacted("net-privkey")
	assert.Equal(t, "net-privkey", attr.Key)
	assert.Equal(t, Placeholder(), attr.Value.String())
}
