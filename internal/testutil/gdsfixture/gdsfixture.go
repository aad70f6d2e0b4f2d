// Package gdsfixture builds GDSII byte streams for tests.
package gdsfixture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/danmuck/gdsstream/internal/stream/field"
)

// Stream accumulates encoded records.
type Stream struct {
	buf bytes.Buffer
}

func New() *Stream {
	return &Stream{}
}

// Record appends one record whose length prefix covers the concatenated
// payload parts. Odd payloads are written as given.
func (s *Stream) Record(rt stream.RecordType, dt stream.DataType, parts ...[]byte) *Stream {
	var payload []byte
	for _, p := range parts {
		payload = append(payload, p...)
	}
	length := 4 + len(payload)
	if length > math.MaxUint16 {
		panic(fmt.Sprintf("gdsfixture: record %s payload of %d bytes does not fit", rt, len(payload)))
	}
	var head [4]byte
	binary.BigEndian.PutUint16(head[0:2], uint16(length))
	head[2] = byte(rt)
	head[3] = byte(dt)
	s.buf.Write(head[:])
	s.buf.Write(payload)
	return s
}

// Raw appends bytes verbatim, for hand-built framing errors.
func (s *Stream) Raw(b ...byte) *Stream {
	s.buf.Write(b)
	return s
}

// End appends the zero length sentinel.
func (s *Stream) End() *Stream {
	return s.Raw(0, 0)
}

func (s *Stream) Bytes() []byte {
	return bytes.Clone(s.buf.Bytes())
}

func (s *Stream) Reader() *bytes.Reader {
	return bytes.NewReader(s.Bytes())
}

func Int16s(v ...int16) []byte {
	out := make([]byte, 0, 2*len(v))
	for _, x := range v {
		out = binary.BigEndian.AppendUint16(out, uint16(x))
	}
	return out
}

func Uint16s(v ...uint16) []byte {
	out := make([]byte, 0, 2*len(v))
	for _, x := range v {
		out = binary.BigEndian.AppendUint16(out, x)
	}
	return out
}

func Int32s(v ...int32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, x := range v {
		out = binary.BigEndian.AppendUint32(out, uint32(x))
	}
	return out
}

func Real64s(v ...float64) []byte {
	out := make([]byte, 0, 8*len(v))
	for _, x := range v {
		enc := EncodeReal64(x)
		out = append(out, enc[:]...)
	}
	return out
}

// String NUL-pads s to an even length.
func String(s string) []byte {
	out := []byte(s)
	if len(out)%2 != 0 {
		out = append(out, 0)
	}
	return out
}

func Points(pts ...field.Point) []byte {
	out := make([]byte, 0, field.PointLen*len(pts))
	for _, p := range pts {
		out = binary.BigEndian.AppendUint32(out, uint32(p.X))
		out = binary.BigEndian.AppendUint32(out, uint32(p.Y))
	}
	return out
}

// Timestamp encodes a sextet exactly as given; no year adjustment.
func Timestamp(year, month, day, hour, minute, second int16) []byte {
	return Int16s(year, month, day, hour, minute, second)
}

// EncodeReal64 is the inverse of field.Real64 for values whose base-16
// exponent fits in seven bits.
func EncodeReal64(v float64) [8]byte {
	var out [8]byte
	if v == 0 {
		return out
	}
	var sign byte
	if v < 0 {
		sign = 0x80
		v = -v
	}
	frac, e2 := math.Frexp(v)
	e16 := int(math.Ceil(float64(e2) / 4))
	if e16+64 < 0 || e16+64 > 0x7f {
		panic(fmt.Sprintf("gdsfixture: %g out of excess-64 range", v))
	}
	mant := uint64(math.Ldexp(frac, 56+e2-4*e16))
	out[0] = sign | byte(e16+64)
	for i := 7; i >= 1; i-- {
		out[i] = byte(mant)
		mant >>= 8
	}
	return out
}

// Library is a small well-formed library: one structure holding a
// boundary on layer 1 and a reference to CELL.
func Library() *Stream {
	return New().
		Record(stream.Header, stream.Int2, Int16s(600)).
		Record(stream.BgnLib, stream.Int2,
			Timestamp(117, 6, 10, 12, 0, 0),
			Timestamp(0, 0, 0, 0, 0, 0)).
		Record(stream.LibName, stream.ASCII, String("DEMO.DB")).
		Record(stream.Units, stream.Real8, Real64s(0.001, 1e-9)).
		Record(stream.BgnStr, stream.Int2,
			Timestamp(2017, 6, 10, 12, 0, 0),
			Timestamp(2017, 6, 10, 12, 30, 0)).
		Record(stream.StrName, stream.ASCII, String("TOP")).
		Record(stream.Boundary, stream.NoData).
		Record(stream.Layer, stream.Int2, Int16s(1)).
		Record(stream.Datatype, stream.Int2, Int16s(0)).
		Record(stream.XY, stream.Int4, Points(
			field.Point{X: 0, Y: 0},
			field.Point{X: 100, Y: 0},
			field.Point{X: 100, Y: 50},
			field.Point{X: 0, Y: 50},
			field.Point{X: 0, Y: 0},
		)).
		Record(stream.EndEl, stream.NoData).
		Record(stream.Sref, stream.NoData).
		Record(stream.Sname, stream.ASCII, String("CELL")).
		Record(stream.XY, stream.Int4, Points(field.Point{X: -20, Y: 300})).
		Record(stream.EndEl, stream.NoData).
		Record(stream.EndStr, stream.NoData).
		Record(stream.EndLib, stream.NoData)
}
