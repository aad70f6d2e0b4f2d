// Package field decodes the fixed-format byte windows found in record
// payloads. Every function is pure: no I/O, same bytes in, same value out.
package field

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/danmuck/gdsstream/internal/stream"
)

// Widths of the fixed-format fields.
const (
	Int16Len        = 2
	Int32Len        = 4
	Real64Len       = 8
	PointLen        = 2 * Int32Len
	TimestampLen    = 6 * Int16Len
	PresentationLen = Int16Len
)

// Presentation bit masks. Values stay masked in place, not shifted.
const (
	FontMask   uint16 = 0x30
	VAlignMask uint16 = 0x0c
	HAlignMask uint16 = 0x03
)

// ShortError reports a window smaller than the field it should hold.
// Offset is relative to the start of the window the caller handed in.
type ShortError struct {
	Offset int
	Need   int
	Have   int
}

func (e *ShortError) Error() string {
	return fmt.Sprintf("field: short window at %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *ShortError) Unwrap() error {
	return stream.ErrTruncated
}

// WidthError reports a window whose size is not a multiple of its element width.
type WidthError struct {
	Len   int
	Width int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("field: %d bytes is not a multiple of %d", e.Len, e.Width)
}

func (e *WidthError) Unwrap() error {
	return stream.ErrMalformed
}

// Point is one coordinate pair in database units.
type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

// Timestamp is a year/month/day/hour/minute/second sextet.
// Recorded is false when the stream carried all zeros.
type Timestamp struct {
	Year     int16 `json:"year" yaml:"year"`
	Month    int16 `json:"month" yaml:"month"`
	Day      int16 `json:"day" yaml:"day"`
	Hour     int16 `json:"hour" yaml:"hour"`
	Minute   int16 `json:"minute" yaml:"minute"`
	Second   int16 `json:"second" yaml:"second"`
	Recorded bool  `json:"recorded" yaml:"recorded"`
}

// Time converts a recorded timestamp to UTC. Out-of-range fields are
// normalized the way time.Date does.
func (ts Timestamp) Time() (time.Time, bool) {
	if !ts.Recorded {
		return time.Time{}, false
	}
	return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day),
		int(ts.Hour), int(ts.Minute), int(ts.Second), 0, time.UTC), true
}

func (ts Timestamp) String() string {
	if !ts.Recorded {
		return "not recorded"
	}
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}

// Presentation is the decomposed text presentation bit array.
type Presentation struct {
	Font   uint16 `json:"font" yaml:"font"`
	VAlign uint16 `json:"valign" yaml:"valign"`
	HAlign uint16 `json:"halign" yaml:"halign"`
}

func need(b []byte, n int) error {
	if len(b) < n {
		return &ShortError{Need: n, Have: len(b)}
	}
	return nil
}

// Int16 decodes a big-endian two's-complement 16-bit integer.
func Int16(b []byte) (int16, error) {
	if err := need(b, Int16Len); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// Uint16 decodes the same two bytes as Int16 without sign, for bit arrays
// and the small unsigned counters (layer, datatype, columns...).
func Uint16(b []byte) (uint16, error) {
	if err := need(b, Int16Len); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Int32 decodes a big-endian two's-complement 32-bit integer.
func Int32(b []byte) (int32, error) {
	if err := need(b, Int32Len); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Real64 decodes the excess-64, base-16, sign-magnitude real:
// bit 7 of byte 0 is the sign, bits 0-6 the exponent biased by 64, and
// bytes 1-7 a 56-bit fraction in [0, 1). Every input yields a finite value.
func Real64(b []byte) (float64, error) {
	if err := need(b, Real64Len); err != nil {
		return 0, err
	}
	exp := int(b[0]&0x7f) - 64
	var mant uint64
	for _, c := range b[1:Real64Len] {
		mant = mant<<8 | uint64(c)
	}
	v := math.Ldexp(float64(mant), 4*exp-56)
	if b[0]&0x80 != 0 {
		v = -v
	}
	return v, nil
}

// ASCII keeps only printable bytes in [32, 127). NUL padding and any other
// control byte is dropped, not replaced.
func ASCII(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 32 || c >= 127 {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Points decodes the whole window as (x, y) int32 pairs.
func Points(b []byte) ([]Point, error) {
	if len(b)%PointLen != 0 {
		return nil, &WidthError{Len: len(b), Width: PointLen}
	}
	pts := make([]Point, len(b)/PointLen)
	for i := range pts {
		at := i * PointLen
		pts[i] = Point{
			X: int32(binary.BigEndian.Uint32(b[at:])),
			Y: int32(binary.BigEndian.Uint32(b[at+Int32Len:])),
		}
	}
	return pts, nil
}

// DecodeTimestamp reads six int16 values. A year below 1000 is a two-digit
// legacy year and gets 1900 added; an all-zero sextet is "not recorded".
func DecodeTimestamp(b []byte) (Timestamp, error) {
	if err := need(b, TimestampLen); err != nil {
		return Timestamp{}, err
	}
	var v [6]int16
	zero := true
	for i := range v {
		v[i] = int16(binary.BigEndian.Uint16(b[i*Int16Len:]))
		if v[i] != 0 {
			zero = false
		}
	}
	if zero {
		return Timestamp{}, nil
	}
	ts := Timestamp{
		Year:     v[0],
		Month:    v[1],
		Day:      v[2],
		Hour:     v[3],
		Minute:   v[4],
		Second:   v[5],
		Recorded: true,
	}
	if ts.Year < 1000 {
		ts.Year += 1900
	}
	return ts, nil
}

// DecodePresentation masks the font, vertical and horizontal alignment bits.
func DecodePresentation(b []byte) (Presentation, error) {
	raw, err := Uint16(b)
	if err != nil {
		return Presentation{}, err
	}
	return Presentation{
		Font:   raw & FontMask,
		VAlign: raw & VAlignMask,
		HAlign: raw & HAlignMask,
	}, nil
}
