package stream

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated        = errors.New("stream: truncated data")
	ErrMalformed        = errors.New("stream: malformed record")
	ErrRecordTooLarge   = errors.New("stream: record too large")
	ErrUnknownRecord    = errors.New("stream: unknown record type")
	ErrDataTypeMismatch = errors.New("stream: data type mismatch")
	ErrUnreadableSource = errors.New("stream: unreadable source")
)

// TruncatedError reports a source that ran dry inside a record.
// Offset is the stream offset of the unit being read (length prefix, record
// body or payload field); Need and Have count bytes from there.
type TruncatedError struct {
	Offset int64
	Need   int
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("stream: truncated at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *TruncatedError) Unwrap() error {
	return ErrTruncated
}

// MalformedError reports a record whose framing or payload size cannot be
// trusted. Decoding stops; record boundaries after it are unknown.
// Framing is set when the length prefix itself was rejected, in which case
// Type was never read.
type MalformedError struct {
	Offset  int64
	Type    RecordType
	Framing bool
	Reason  string
	Err     error
}

func (e *MalformedError) Error() string {
	var msg string
	if e.Framing {
		msg = fmt.Sprintf("stream: malformed record at offset %d", e.Offset)
	} else {
		msg = fmt.Sprintf("stream: malformed %s record at offset %d", e.Type, e.Offset)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
