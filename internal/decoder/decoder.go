package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danmuck/gdsstream/internal/config"
	"github.com/danmuck/gdsstream/internal/observability"
	"github.com/danmuck/gdsstream/internal/source"
	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/danmuck/gdsstream/internal/stream/event"
	"github.com/danmuck/gdsstream/internal/stream/field"
	"github.com/danmuck/gdsstream/internal/stream/frame"
	"github.com/danmuck/gdsstream/internal/stream/record"
	"github.com/rs/zerolog"
)

// Handler receives events synchronously, in stream order. It runs inline
// with decoding and should return quickly.
type Handler interface {
	Handle(ev event.Event)
}

type HandlerFunc func(ev event.Event)

func (f HandlerFunc) Handle(ev event.Event) {
	f(ev)
}

// Multi fans each event out to every handler in order.
func Multi(handlers ...Handler) Handler {
	return HandlerFunc(func(ev event.Event) {
		for _, h := range handlers {
			h.Handle(ev)
		}
	})
}

// Options configure a Decoder. The zero value decodes permissively with
// default limits, no logging and no metrics.
type Options struct {
	Limits        frame.Limits
	Strict        bool
	CheckDataType bool
	Logger        *zerolog.Logger
	Metrics       bool
}

// FromConfig maps the [decode] config section onto Options.
func FromConfig(cfg config.Decode) Options {
	return Options{
		Limits:        frame.Limits{MaxRecordBytes: cfg.MaxRecordBytes},
		Strict:        cfg.Strict,
		CheckDataType: cfg.CheckDataType,
	}
}

// Stats summarizes one decode call.
type Stats struct {
	Records int64
	Events  int64
	Skipped int64
	Bytes   int64
}

// Decoder is safe for concurrent use on distinct sources.
type Decoder struct {
	opts       Options
	log        zerolog.Logger
	dispatcher record.Dispatcher
}

func New(opts Options) *Decoder {
	if opts.Limits.MaxRecordBytes == 0 {
		opts.Limits = frame.DefaultLimits()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Decoder{
		opts: opts,
		log:  logger,
		dispatcher: record.NewDispatcher(record.Options{
			Strict:        opts.Strict,
			CheckDataType: opts.CheckDataType,
		}),
	}
}

// DecodeFile opens path (or stdin for "-"), unwraps compression and decodes.
// A source that cannot be opened yields an error wrapping
// stream.ErrUnreadableSource and no events.
func (d *Decoder) DecodeFile(ctx context.Context, path string, h Handler) (Stats, error) {
	src, err := source.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	d.log.Debug().
		Str("source", src.Name).
		Stringer("compression", src.Compression).
		Msg("source opened")
	return d.Decode(ctx, src, h)
}

// Decode reads records from r until the end-of-stream sentinel, the end of
// input, a fatal error, or ctx cancellation, delivering events to h.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, h Handler) (Stats, error) {
	start := time.Now()
	fr := frame.NewReader(r, d.opts.Limits)
	stats, err := d.run(ctx, fr, h)
	stats.Bytes = fr.Offset()

	outcome := outcomeOf(err)
	if d.opts.Metrics {
		observability.RecordRun(outcome, stats.Bytes, time.Since(start))
	}
	logEvent := d.log.Debug()
	if err != nil {
		logEvent = d.log.Warn().Err(err)
	}
	logEvent.
		Str("outcome", outcome).
		Int64("records", stats.Records).
		Int64("events", stats.Events).
		Int64("skipped", stats.Skipped).
		Int64("bytes", stats.Bytes).
		Dur("duration", time.Since(start)).
		Msg("decode finished")
	return stats, err
}

func (d *Decoder) run(ctx context.Context, fr *frame.Reader, h Handler) (Stats, error) {
	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("decode canceled at offset %d: %w", fr.Offset(), err)
		}

		rec, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Records++

		events, err := d.dispatcher.Dispatch(rec.Type, rec.DataType, rec.Payload)
		if err != nil {
			return stats, locate(err, rec)
		}

		d.log.Debug().
			Int64("offset", rec.Offset).
			Stringer("record", rec.Type).
			Stringer("data_type", rec.DataType).
			Int("payload", len(rec.Payload)).
			Int("events", len(events)).
			Msg("record")
		if d.opts.Metrics {
			observability.RecordRecord(rec.Type.String(), len(events))
		}
		if len(events) == 0 {
			stats.Skipped++
			continue
		}
		for _, ev := range events {
			h.Handle(ev)
			stats.Events++
			if d.opts.Metrics {
				observability.RecordEvent(ev.Kind().String())
			}
		}
	}
}

// locate rebases dispatcher errors onto absolute stream offsets.
func locate(err error, rec frame.Record) error {
	payloadStart := rec.Offset + frame.HeaderLen

	var short *field.ShortError
	if errors.As(err, &short) {
		return &stream.TruncatedError{
			Offset: payloadStart + int64(short.Offset),
			Need:   short.Need,
			Have:   short.Have,
		}
	}
	var malformed *stream.MalformedError
	if errors.As(err, &malformed) {
		located := *malformed
		located.Offset = rec.Offset
		located.Type = rec.Type
		return &located
	}
	return fmt.Errorf("record %s at offset %d: %w", rec.Type, rec.Offset, err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return observability.OutcomeCanceled
	case errors.Is(err, stream.ErrTruncated):
		return observability.OutcomeTruncated
	case errors.Is(err, stream.ErrMalformed):
		return observability.OutcomeMalformed
	default:
		return observability.OutcomeError
	}
}
