package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false // Disable colors for easier testing
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")
		defer SetLevel("INFO")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		logged := buf.String()
		assert.Contains(t, logged, "debug message")
		assert.Contains(t, logged, "info message")
		assert.Contains(t, logged, "warn message")
		assert.Contains(t, logged, "error message")
	})

	t.Run("InfoLevelFiltersDebug", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")

		Debug("debug message")
		Info("info message")

		logged := buf.String()
		assert.NotContains(t, logged, "debug message")
		assert.Contains(t, logged, "info message")
	})

	t.Run("InvalidLevelIgnored", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetLevel("LOUD")

		Info("still here")
		assert.Contains(t, buf.String(), "still here")
	})
}

func TestTextFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetFormat("text")
	Info("account resolved", Username("alice"), UID(2000))

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "account resolved")
	assert.Contains(t, line, "username=alice")
	assert.Contains(t, line, "uid=2000")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetFormat("json")
	defer SetFormat("text")

	Info("page loaded", PageToken("tok-2"), Entries(3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "page loaded", record["msg"])
	assert.Equal(t, "tok-2", record[KeyPageToken])
	assert.Equal(t, float64(3), record[KeyEntries])
}

func TestContextFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	lc := NewLogContext("lookup_by_name").
		WithIdentity("alice", 2000).
		WithSession("sess-1")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "lookup complete")

	line := buf.String()
	assert.Contains(t, line, "operation=lookup_by_name")
	assert.Contains(t, line, "session_id=sess-1")
	assert.Contains(t, line, "username=alice")
	assert.Contains(t, line, "uid=2000")
}

func TestContextClone(t *testing.T) {
	lc := NewLogContext("enumeration_next")
	modified := lc.WithSession("sess-2").WithIdentity("bob", 2001)

	assert.Empty(t, lc.SessionID)
	assert.Equal(t, "sess-2", modified.SessionID)
	assert.Equal(t, "enumeration_next", modified.Operation)
	assert.Equal(t, "bob", modified.Username)
}

func TestErrAttr(t *testing.T) {
	t.Run("NilErrorProducesEmptyAttr", func(t *testing.T) {
		attr := Err(nil)
		assert.True(t, attr.Equal(Err(nil)))
		assert.Empty(t, attr.Key)
	})

	t.Run("ErrorRendered", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		Warn("lookup failed", Err(assert.AnError))
		assert.Contains(t, buf.String(), "error=")
	})
}

func TestFieldKeysAreSnakeCase(t *testing.T) {
	keys := []string{
		KeyTraceID, KeySpanID, KeyOperation, KeySessionID, KeyPageToken,
		KeyUsername, KeyUID, KeyGID, KeyEmail, KeyPolicy, KeyAuthorized,
		KeyEndpoint, KeyPath, KeyStatus, KeyRequestID, KeyAttempt,
		KeyDurationMs, KeyError, KeyConfigFile,
	}
	for _, key := range keys {
		assert.Equal(t, strings.ToLower(key), key, "field key %q should be lowercase", key)
		assert.NotContains(t, key, " ")
	}
}
