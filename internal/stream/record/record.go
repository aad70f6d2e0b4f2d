// Package record maps record type tags to payload decoders and events.
//
// Ownership boundary:
// - the static tag table
// - dispatch of one record payload to zero or more events
//
// Dispatch is a flat translation. Record order is never checked.
package record

import (
	"errors"
	"sort"

	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/danmuck/gdsstream/internal/stream/event"
	"github.com/danmuck/gdsstream/internal/stream/field"
)

// DecodeFunc turns a payload into events. A nil DecodeFunc marks a record
// type that is known but emits nothing.
type DecodeFunc func(c *field.Cursor) ([]event.Event, error)

// Spec is one row of the dispatch table.
type Spec struct {
	Type     stream.RecordType
	DataType stream.DataType
	Emits    []event.Kind
	Decode   DecodeFunc
}

// Emitting reports whether records of this type produce events.
func (s Spec) Emitting() bool {
	return s.Decode != nil
}

// Options tighten the default permissive dispatch.
type Options struct {
	// Strict rejects record types missing from the table.
	Strict bool
	// CheckDataType rejects records whose data type tag disagrees with the table.
	CheckDataType bool
}

// Dispatcher is stateless; a zero value dispatches permissively.
type Dispatcher struct {
	opts Options
}

func NewDispatcher(opts Options) Dispatcher {
	return Dispatcher{opts: opts}
}

// Dispatch decodes one payload. Unknown record types yield no events and no
// error unless the dispatcher is strict. Errors are *stream.MalformedError or
// a *field.ShortError carrying a payload-relative offset; the caller owns
// translating offsets to stream positions.
func (d Dispatcher) Dispatch(rt stream.RecordType, dt stream.DataType, payload []byte) ([]event.Event, error) {
	spec, ok := table[rt]
	if !ok {
		if d.opts.Strict {
			return nil, &stream.MalformedError{Type: rt, Err: stream.ErrUnknownRecord}
		}
		return nil, nil
	}
	if d.opts.CheckDataType && dt != spec.DataType {
		return nil, &stream.MalformedError{
			Type:   rt,
			Reason: "got " + dt.String() + " want " + spec.DataType.String(),
			Err:    stream.ErrDataTypeMismatch,
		}
	}
	if spec.Decode == nil {
		return nil, nil
	}

	c := field.NewCursor(payload)
	events, err := spec.Decode(c)
	if err != nil {
		var width *field.WidthError
		if errors.As(err, &width) {
			return nil, &stream.MalformedError{Type: rt, Err: width}
		}
		return nil, err
	}
	if c.Remaining() != 0 {
		return nil, &stream.MalformedError{Type: rt, Reason: "trailing bytes"}
	}
	return events, nil
}

// Lookup returns the table row for rt.
func Lookup(rt stream.RecordType) (Spec, bool) {
	spec, ok := table[rt]
	return spec, ok
}

// Specs returns every table row ordered by tag.
func Specs() []Spec {
	list := make([]Spec, 0, len(table))
	for _, spec := range table {
		list = append(list, spec)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Type < list[j].Type
	})
	return list
}
