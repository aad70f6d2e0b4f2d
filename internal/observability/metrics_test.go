package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()
}

func TestRecordRecordCountsSkips(t *testing.T) {
	beforeRecords := testutil.ToFloat64(decodeRecords.WithLabelValues("REFLIBS"))
	beforeSkipped := testutil.ToFloat64(decodeSkipped.WithLabelValues("REFLIBS"))

	RecordRecord("REFLIBS", 0)
	RecordRecord("REFLIBS", 1)

	assert.Equal(t, beforeRecords+2, testutil.ToFloat64(decodeRecords.WithLabelValues("REFLIBS")))
	assert.Equal(t, beforeSkipped+1, testutil.ToFloat64(decodeSkipped.WithLabelValues("REFLIBS")))
}

func TestRecordRunAndEvent(t *testing.T) {
	beforeBytes := testutil.ToFloat64(decodeBytes)
	beforeRuns := testutil.ToFloat64(decodeRuns.WithLabelValues(OutcomeTruncated))
	beforeEvents := testutil.ToFloat64(decodeEvents.WithLabelValues("layer"))

	RecordRun(OutcomeTruncated, 128, 5*time.Millisecond)
	RecordEvent("layer")

	assert.Equal(t, beforeBytes+128, testutil.ToFloat64(decodeBytes))
	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(decodeRuns.WithLabelValues(OutcomeTruncated)))
	assert.Equal(t, beforeEvents+1, testutil.ToFloat64(decodeEvents.WithLabelValues("layer")))
}

func TestWriteTextfile(t *testing.T) {
	RecordRun(OutcomeOK, 10, time.Millisecond)
	path := filepath.Join(t.TempDir(), "gdsdump.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "gdsstream_decode_runs_total"))
	assert.Contains(t, string(data), `outcome="ok"`)
}
