package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordTable struct{}

func (recordTable) Headers() []string {
	return []string{"USERNAME", "UID", "SHELL"}
}

func (recordTable) Rows() [][]string {
	return [][]string{
		{"alice", "1001", "/bin/bash"},
		{"bob", "1002", "/bin/zsh"},
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, recordTable{}))

	out := buf.String()
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "/bin/zsh")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"username": "alice", "uid": 1001}

	require.NoError(t, PrintJSON(&buf, data))
	assert.Contains(t, buf.String(), `"username": "alice"`)
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"username": "alice", "uid": 1001}

	require.NoError(t, PrintYAML(&buf, data))
	assert.Contains(t, buf.String(), "username: alice")
	assert.Contains(t, buf.String(), "uid: 1001")
}
