package decoder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/gdsstream/internal/config"
	"github.com/danmuck/gdsstream/internal/observability"
	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/danmuck/gdsstream/internal/stream/event"
	"github.com/danmuck/gdsstream/internal/stream/field"
	"github.com/danmuck/gdsstream/internal/testutil/gdsfixture"
	"github.com/danmuck/gdsstream/internal/testutil/testlog"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	events []event.Event
}

func (c *collector) Handle(ev event.Event) {
	c.events = append(c.events, ev)
}

func (c *collector) kinds() []event.Kind {
	out := make([]event.Kind, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Kind())
	}
	return out
}

func newTestDecoder(t *testing.T, opts Options) *Decoder {
	logger := testlog.Start(t)
	opts.Logger = &logger
	return New(opts)
}

func TestDecodeLibrary(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	body := gdsfixture.Library().End().Bytes()
	stats, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.NoError(t, err)

	assert.Equal(t, []event.Kind{
		event.KindVersion, event.KindModTime, event.KindAccessTime, event.KindLibName, event.KindUnits,
		event.KindModTime, event.KindAccessTime, event.KindStrName,
		event.KindBoundaryStart, event.KindLayer, event.KindDataType, event.KindXY, event.KindEndElement,
		event.KindSrefStart, event.KindSname, event.KindXY, event.KindEndElement,
		event.KindEndStructure, event.KindEndLibrary,
	}, c.kinds())
	assert.Equal(t, Stats{Records: 17, Events: 19, Skipped: 0, Bytes: int64(len(body))}, stats)
	assert.Equal(t, event.AccessTime{}, c.events[2])
}

func TestDecodeZeroLengthStopsWithSuccess(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	body := gdsfixture.New().
		Record(stream.Header, stream.Int2, gdsfixture.Int16s(5)).
		End().
		Raw(0xde, 0xad, 0xbe).
		Bytes()
	stats, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.Version{Version: 5}}, c.events)
	assert.Equal(t, int64(8), stats.Bytes)
}

func TestDecodeEndElementConsumesNoPayload(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	body := gdsfixture.New().Record(stream.EndEl, stream.NoData).Bytes()
	require.Len(t, body, 4)
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.EndElement{}}, c.events)
}

func TestDecodeXYPairsInOrder(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	pts := gdsfixture.Points(field.Point{X: 10, Y: 20}, field.Point{X: -30, Y: 40})
	require.Len(t, pts, 16)
	body := gdsfixture.New().Record(stream.XY, stream.Int4, pts).Bytes()
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.XY{Points: []field.Point{{X: 10, Y: 20}, {X: -30, Y: 40}}}}, c.events)
}

func TestDecodeTruncatedRecordEmitsNothingForIt(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	full := gdsfixture.New().
		Record(stream.Header, stream.Int2, gdsfixture.Int16s(600)).
		Record(stream.LibName, stream.ASCII, gdsfixture.String("LIBRARY1")).
		Bytes()
	stats, err := d.Decode(context.Background(), bytes.NewReader(full[:len(full)-2]), &c)

	var te *stream.TruncatedError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, int64(8), te.Offset)
	assert.Equal(t, 10, te.Need)
	assert.Equal(t, 8, te.Have)
	assert.Equal(t, []event.Event{event.Version{Version: 600}}, c.events)
	assert.Equal(t, int64(1), stats.Records)
}

func TestDecodeShortPayloadIsTruncationAtStreamOffset(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	body := gdsfixture.New().
		Record(stream.EndEl, stream.NoData).
		Record(stream.Header, stream.Int2).
		Bytes()
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &c)

	var te *stream.TruncatedError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, stream.TruncatedError{Offset: 8, Need: 2, Have: 0}, *te)
	assert.Len(t, c.events, 1)
}

func TestDecodeMalformedPayloadCarriesRecord(t *testing.T) {
	d := newTestDecoder(t, Options{})
	body := gdsfixture.New().
		Record(stream.Boundary, stream.NoData).
		Record(stream.XY, stream.Int4, make([]byte, 12)).
		Bytes()
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &collector{})

	var me *stream.MalformedError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, int64(4), me.Offset)
	assert.Equal(t, stream.XY, me.Type)
	assert.False(t, me.Framing)
	assert.ErrorIs(t, err, stream.ErrMalformed)
}

func TestDecodeSkipsUnknownRecords(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	body := gdsfixture.New().
		Record(stream.RecordType(0x77), stream.Int4, gdsfixture.Int32s(1, 2, 3)).
		Record(stream.Layer, stream.Int2, gdsfixture.Int16s(9)).
		End().
		Bytes()
	stats, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.Layer{Layer: 9}}, c.events)
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Equal(t, int64(2), stats.Records)
}

func TestDecodeStrictStopsOnUnknown(t *testing.T) {
	d := newTestDecoder(t, Options{Strict: true})
	body := gdsfixture.New().
		Record(stream.RecordType(0x77), stream.NoData).
		Record(stream.Layer, stream.Int2, gdsfixture.Int16s(9)).
		Bytes()
	var c collector
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.ErrorIs(t, err, stream.ErrUnknownRecord)
	assert.Empty(t, c.events)
}

func TestDecodePaddedName(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	payload := append([]byte("LIB1"), make([]byte, 40)...)
	body := gdsfixture.New().Record(stream.LibName, stream.ASCII, payload).Bytes()
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &c)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.LibName{Name: "LIB1"}}, c.events)
}

func TestDecodeCanceled(t *testing.T) {
	d := newTestDecoder(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var c collector
	_, err := d.Decode(ctx, gdsfixture.Library().Reader(), &c)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.events)
}

func TestDecodeStopsWhenHandlerCancels(t *testing.T) {
	d := newTestDecoder(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seen := 0
	h := HandlerFunc(func(ev event.Event) {
		seen++
		if ev.Kind() == event.KindLibName {
			cancel()
		}
	})
	_, err := d.Decode(ctx, gdsfixture.Library().Reader(), h)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, seen)
}

func TestMultiPreservesOrder(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var a, b collector
	_, err := d.Decode(context.Background(), gdsfixture.Library().Reader(), Multi(&a, &b))
	require.NoError(t, err)
	assert.Equal(t, a.events, b.events)
	assert.Len(t, a.events, 19)
}

func TestDecodeFileCompressedMatchesRaw(t *testing.T) {
	d := newTestDecoder(t, Options{})
	raw := gdsfixture.Library().End().Bytes()
	dir := t.TempDir()

	rawPath := filepath.Join(dir, "lib.gds")
	require.NoError(t, os.WriteFile(rawPath, raw, 0o600))

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gzPath := filepath.Join(dir, "lib.gds.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0o600))

	var fromRaw, fromGz collector
	_, err = d.DecodeFile(context.Background(), rawPath, &fromRaw)
	require.NoError(t, err)
	stats, err := d.DecodeFile(context.Background(), gzPath, &fromGz)
	require.NoError(t, err)
	assert.Equal(t, fromRaw.events, fromGz.events)
	assert.Equal(t, int64(len(raw)), stats.Bytes)
}

func TestDecodeFileUnreadable(t *testing.T) {
	d := newTestDecoder(t, Options{})
	var c collector
	_, err := d.DecodeFile(context.Background(), filepath.Join(t.TempDir(), "missing.gds"), &c)
	require.ErrorIs(t, err, stream.ErrUnreadableSource)
	assert.Empty(t, c.events)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Decode
	cfg.Strict = true
	cfg.MaxRecordBytes = 128
	opts := FromConfig(cfg)
	assert.True(t, opts.Strict)
	assert.False(t, opts.CheckDataType)
	assert.Equal(t, 128, opts.Limits.MaxRecordBytes)

	d := New(opts)
	body := gdsfixture.New().Record(stream.XY, stream.Int4, make([]byte, 200)).Bytes()
	_, err := d.Decode(context.Background(), bytes.NewReader(body), &collector{})
	require.ErrorIs(t, err, stream.ErrRecordTooLarge)
}

func TestDecodeRecordsMetrics(t *testing.T) {
	observability.RegisterMetrics()
	d := newTestDecoder(t, Options{Metrics: true})
	_, err := d.Decode(context.Background(), gdsfixture.Library().Reader(), &collector{})
	require.NoError(t, err)

	n, err := promtest.GatherAndCount(prometheus.DefaultGatherer,
		"gdsstream_decode_records_total", "gdsstream_decode_events_total", "gdsstream_decode_runs_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, observability.OutcomeOK, outcomeOf(nil))
	assert.Equal(t, observability.OutcomeCanceled, outcomeOf(context.Canceled))
	assert.Equal(t, observability.OutcomeTruncated, outcomeOf(&stream.TruncatedError{}))
	assert.Equal(t, observability.OutcomeMalformed, outcomeOf(&stream.MalformedError{}))
	assert.Equal(t, observability.OutcomeError, outcomeOf(errors.New("boom")))
}
