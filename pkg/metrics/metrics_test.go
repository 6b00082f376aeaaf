package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SearchesTotal.WithLabelValues("exact").Inc()
	m.SearchesTotal.WithLabelValues("exact").Inc()
	m.SearchesTotal.WithLabelValues("hybrid").Inc()
	m.IndexBuildsTotal.Inc()
	m.SegmentsIndexed.WithLabelValues("doc-1").Set(42)
	m.DocumentsTotal.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("hybrid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexBuildsTotal))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.SegmentsIndexed.WithLabelValues("doc-1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DocumentsTotal))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP pincite_index_builds_total Search index builds and rebuilds.
# TYPE pincite_index_builds_total counter
pincite_index_builds_total 1
`), "pincite_index_builds_total")
	require.NoError(t, err)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
