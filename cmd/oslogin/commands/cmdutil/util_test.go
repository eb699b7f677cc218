package cmdutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfly/compute-image-packages/internal/cli/output"
)

type fakeTable struct{}

func (fakeTable) Headers() []string { return []string{"USERNAME", "UID"} }
func (fakeTable) Rows() [][]string  { return [][]string{{"alice", "1001"}} }

func TestEmptyOr(t *testing.T) {
	assert.Equal(t, "value", EmptyOr("value", "-"))
	assert.Equal(t, "-", EmptyOr("", "-"))
}

func TestGetOutputFormatParsed(t *testing.T) {
	defer func() { Flags.Output = "" }()

	Flags.Output = "json"
	format, err := GetOutputFormatParsed()
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, format)

	Flags.Output = "bogus"
	_, err = GetOutputFormatParsed()
	assert.Error(t, err)
}

func TestPrintOutput_Table(t *testing.T) {
	defer func() { Flags.Output = "" }()
	Flags.Output = "table"

	var buf bytes.Buffer
	err := PrintOutput(&buf, nil, false, "No users found.", fakeTable{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "alice")
	assert.Contains(t, buf.String(), "USERNAME")
}

func TestPrintOutput_TableEmpty(t *testing.T) {
	defer func() { Flags.Output = "" }()
	Flags.Output = "table"

	var buf bytes.Buffer
	err := PrintOutput(&buf, nil, true, "No users found.", fakeTable{})
	require.NoError(t, err)
	assert.Equal(t, "No users found.\n", buf.String())
}

func TestPrintOutput_JSON(t *testing.T) {
	defer func() { Flags.Output = "" }()
	Flags.Output = "json"

	var buf bytes.Buffer
	data := map[string]any{"username": "alice"}
	err := PrintOutput(&buf, data, false, "", fakeTable{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"username": "alice"`)
}

func TestPrintResource_YAML(t *testing.T) {
	defer func() { Flags.Output = "" }()
	Flags.Output = "yaml"

	var buf bytes.Buffer
	data := map[string]any{"username": "alice"}
	err := PrintResource(&buf, data, fakeTable{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "username: alice")
}
