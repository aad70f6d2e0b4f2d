package frame

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/danmuck/gdsstream/internal/stream"
)

const (
	// LengthLen is the size of the record length prefix.
	LengthLen = 2
	// HeaderLen covers the length prefix plus the record and data type tags.
	HeaderLen = LengthLen + 2
)

// Record is one framed unit of the stream. Payload aliases the reader's
// buffer and is only valid until the next call to Next.
type Record struct {
	Offset   int64
	Length   uint16
	Type     stream.RecordType
	DataType stream.DataType
	Payload  []byte
}

// Limits constrains record decode memory use.
type Limits struct {
	MaxRecordBytes int
}

// DefaultLimits allows every length a uint16 prefix can declare.
func DefaultLimits() Limits {
	return Limits{
		MaxRecordBytes: math.MaxUint16,
	}
}

// Reader pulls records one at a time with no read-ahead.
type Reader struct {
	r      io.Reader
	limits Limits
	off    int64
	buf    []byte
	done   bool
}

func NewReader(r io.Reader, limits Limits) *Reader {
	if limits.MaxRecordBytes <= 0 || limits.MaxRecordBytes > math.MaxUint16 {
		limits.MaxRecordBytes = math.MaxUint16
	}
	return &Reader{r: r, limits: limits}
}

// Offset is the number of stream bytes consumed so far.
func (fr *Reader) Offset() int64 {
	return fr.off
}

// Next returns the next record. It returns io.EOF when the source ends on a
// record boundary or a zero length prefix is read; every later call returns
// io.EOF as well.
func (fr *Reader) Next() (Record, error) {
	if fr.done {
		return Record{}, io.EOF
	}
	start := fr.off

	var prefix [LengthLen]byte
	n, err := io.ReadFull(fr.r, prefix[:])
	fr.off += int64(n)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			fr.done = true
			return Record{}, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			fr.done = true
			return Record{}, &stream.TruncatedError{Offset: start, Need: LengthLen, Have: n}
		default:
			return Record{}, err
		}
	}

	length := binary.BigEndian.Uint16(prefix[:])
	if length == 0 {
		fr.done = true
		return Record{}, io.EOF
	}
	if length < HeaderLen || length%2 != 0 {
		fr.done = true
		return Record{}, &stream.MalformedError{Offset: start, Framing: true, Reason: "invalid length " + strconv.Itoa(int(length))}
	}
	if int(length) > fr.limits.MaxRecordBytes {
		fr.done = true
		return Record{}, &stream.MalformedError{Offset: start, Framing: true, Err: stream.ErrRecordTooLarge}
	}

	body := int(length) - LengthLen
	if cap(fr.buf) < body {
		fr.buf = make([]byte, body, fr.limits.MaxRecordBytes)
	}
	fr.buf = fr.buf[:body]
	n, err = io.ReadFull(fr.r, fr.buf)
	fr.off += int64(n)
	if err != nil {
		fr.done = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, &stream.TruncatedError{Offset: start + LengthLen, Need: body, Have: n}
		}
		return Record{}, err
	}

	return Record{
		Offset:   start,
		Length:   length,
		Type:     stream.RecordType(fr.buf[0]),
		DataType: stream.DataType(fr.buf[1]),
		Payload:  fr.buf[2:],
	}, nil
}
