package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(Evaluations, TableCells)

	before := testutil.ToFloat64(Evaluations.WithLabelValues("assurance", "ok"))
	Evaluations.WithLabelValues("assurance", "ok").Inc()
	TableCells.Set(42)
	assert.Equal(t, before+1, testutil.ToFloat64(Evaluations.WithLabelValues("assurance", "ok")))

	path := filepath.Join(t.TempDir(), "relistats.prom")
	require.NoError(t, WriteTextfile(path, reg))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `relistats_evaluations_total{kind="assurance",result="ok"}`)
	assert.Contains(t, string(b), "relistats_table_cells 42")
}
