package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesListsCatalog(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTemplatesCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "StationShortestCount")
	assert.Contains(t, out, "How many stations are between {Station} and {Station}?")
}

func TestTemplatesFilterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTemplatesCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--type-prefix", "Line"})
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string         `json:"status"`
		Data   []TemplateInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	for _, info := range resp.Data {
		assert.Equal(t, "Line", info.Name[:4])
		assert.NotEmpty(t, info.Placeholders)
	}
}

func TestTemplatesNoMatch(t *testing.T) {
	cmd := NewTemplatesCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--type-prefix", "Nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
