package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	decodeRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gdsstream",
			Subsystem: "decode",
			Name:      "records_total",
			Help:      "Records framed, by record type.",
		},
		[]string{"record"},
	)
	decodeSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gdsstream",
			Subsystem: "decode",
			Name:      "skipped_records_total",
			Help:      "Records consumed without emitting an event, by record type.",
		},
		[]string{"record"},
	)
	decodeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gdsstream",
			Subsystem: "decode",
			Name:      "events_total",
			Help:      "Events delivered to consumers, by kind.",
		},
		[]string{"kind"},
	)
	decodeBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gdsstream",
			Subsystem: "decode",
			Name:      "bytes_total",
			Help:      "Stream bytes consumed.",
		},
	)
	decodeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gdsstream",
			Subsystem: "decode",
			Name:      "runs_total",
			Help:      "Completed decode calls, by outcome.",
		},
		[]string{"outcome"},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gdsstream",
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Decode call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

// Decode outcomes used as label values.
const (
	OutcomeOK        = "ok"
	OutcomeTruncated = "truncated"
	OutcomeMalformed = "malformed"
	OutcomeCanceled  = "canceled"
	OutcomeError     = "error"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeRecords, decodeSkipped, decodeEvents, decodeBytes, decodeRuns, decodeDuration)
	})
}

func RecordRecord(record string, emitted int) {
	RegisterMetrics()
	decodeRecords.WithLabelValues(record).Inc()
	if emitted == 0 {
		decodeSkipped.WithLabelValues(record).Inc()
	}
}

func RecordEvent(kind string) {
	RegisterMetrics()
	decodeEvents.WithLabelValues(kind).Inc()
}

func RecordRun(outcome string, bytes int64, duration time.Duration) {
	RegisterMetrics()
	decodeBytes.Add(float64(bytes))
	decodeRuns.WithLabelValues(outcome).Inc()
	decodeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// WriteTextfile dumps the default registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
