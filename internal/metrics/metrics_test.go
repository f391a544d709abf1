package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.Attempt("StationLine")
	r.Attempt("StationLine")
	r.Attempt("LineMostArchitecture")
	r.Success("StationLine")
	r.Failure("StationLine", ClassUnanswerable)
	r.Failure("LineMostArchitecture", ClassDefect)
	r.Untranslatable("StationLine")
	r.Graph()
	r.Graph()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.attempts.WithLabelValues("StationLine")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.attempts.WithLabelValues("LineMostArchitecture")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.successes.WithLabelValues("StationLine")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("StationLine", ClassUnanswerable)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.failures.WithLabelValues("StationLine", ClassDefect)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.untranslatable.WithLabelValues("StationLine")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.graphs))
}

func TestRecordersAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.Graph()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.graphs))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.graphs))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Attempt("StationLine")
	r.Success("StationLine")

	path := filepath.Join(t.TempDir(), "gqa.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gqa_question_attempts_total{type="StationLine"} 1`)
	assert.Contains(t, string(data), `gqa_question_successes_total{type="StationLine"} 1`)
	assert.Contains(t, string(data), "gqa_graphs_generated_total 0")
}

func TestWriteTextfileBadPath(t *testing.T) {
	r := New()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "gqa.prom"))
	assert.Error(t, err)
}
