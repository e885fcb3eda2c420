package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/constants"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "notes", "warn")

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARNING] [notes]")
	assert.Contains(t, out, "shown")
	assert.False(t, log.ShouldLog(DEBUG))
	assert.True(t, log.ShouldLog(ERROR))
}

func TestLogger_FieldsAreSortedAndIncludeTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "notes", "debug")
	ctx := context.WithValue(context.Background(), constants.TraceIDKey, "trace-1")

	log.WithFields(ctx, Fields{"user_id": 7, "action": "note_created"}).Info("note created")

	out := buf.String()
	assert.Contains(t, out, "[trace_id=trace-1 action=note_created user_id=7]")
	assert.Contains(t, out, "logger_test.go")
}

func TestNew_DisabledFileSink(t *testing.T) {
	log, err := New(DisabledLogDir, "notes", "info")
	require.NoError(t, err)
	assert.True(t, log.ShouldLog(INFO))
}

func TestNew_CreatesLogDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := New(dir, "notes", "error")
	require.NoError(t, err)
	log.Error("boom")

	_, err = os.Stat(filepath.Join(dir, "notes.log"))
	assert.NoError(t, err)
}

func TestParseLevel_Default(t *testing.T) {
	assert.Equal(t, INFO, parseLevel("nonsense"))
	assert.Equal(t, WARNING, parseLevel(" warning "))
	assert.Equal(t, CRITICAL, parseLevel("critical"))
}
