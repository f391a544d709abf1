package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/gqa/internal/graph"
)

func runGraphCmd(t *testing.T, format string, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewGraphCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestGraphPrintsYAML(t *testing.T) {
	out := runGraphCmd(t, "text", "--preset", "tiny", "--seed", "3")

	var spec graph.Spec
	require.NoError(t, yaml.Unmarshal([]byte(out), &spec))
	assert.NotEmpty(t, spec.ID)
	assert.NotEmpty(t, spec.Nodes)
	assert.NotEmpty(t, spec.Edges)
	assert.NotEmpty(t, spec.Lines)

	g, err := graph.FromSpec(spec)
	require.NoError(t, err)
	assert.NoError(t, g.Usable())
}

func TestGraphIsReproducible(t *testing.T) {
	a := runGraphCmd(t, "text", "--preset", "small", "--seed", "9", "--string-names")
	b := runGraphCmd(t, "text", "--preset", "small", "--seed", "9", "--string-names")
	assert.Equal(t, a, b)
}

func TestGraphCypher(t *testing.T) {
	out := runGraphCmd(t, "text", "--preset", "tiny", "--seed", "3", "--cypher")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "CREATE (n:NODE {"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "MATCH (from),(to)"))
}

func TestGraphJSON(t *testing.T) {
	out := runGraphCmd(t, "json", "--preset", "tiny", "--seed", "3", "--cypher")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.([]any))
}

func TestGraphUnknownPreset(t *testing.T) {
	cmd := NewGraphCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--preset", "huge"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
