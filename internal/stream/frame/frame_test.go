package frame_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/danmuck/gdsstream/internal/stream/frame"
	"github.com/danmuck/gdsstream/internal/testutil/gdsfixture"
	"github.com/danmuck/gdsstream/internal/testutil/testlog"
)

func TestNextReadsRecordsInOrder(t *testing.T) {
	testlog.Start(t)
	body := gdsfixture.New().
		Record(stream.Header, stream.Int2, gdsfixture.Int16s(600)).
		Record(stream.LibName, stream.ASCII, gdsfixture.String("LIB")).
		Record(stream.EndLib, stream.NoData).
		Bytes()

	fr := frame.NewReader(bytes.NewReader(body), frame.DefaultLimits())
	want := []struct {
		offset  int64
		length  uint16
		rt      stream.RecordType
		dt      stream.DataType
		payload []byte
	}{
		{0, 6, stream.Header, stream.Int2, []byte{0x02, 0x58}},
		{6, 8, stream.LibName, stream.ASCII, []byte("LIB\x00")},
		{14, 4, stream.EndLib, stream.NoData, []byte{}},
	}
	for i, w := range want {
		rec, err := fr.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if rec.Offset != w.offset || rec.Length != w.length || rec.Type != w.rt || rec.DataType != w.dt {
			t.Fatalf("record %d header mismatch: got=%+v", i, rec)
		}
		if !bytes.Equal(rec.Payload, w.payload) {
			t.Fatalf("record %d payload mismatch: got=%x want=%x", i, rec.Payload, w.payload)
		}
	}
	if _, err := fr.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of input, got %v", err)
	}
	if fr.Offset() != int64(len(body)) {
		t.Fatalf("offset mismatch: got=%d want=%d", fr.Offset(), len(body))
	}
}

func TestNextStopsAtZeroLength(t *testing.T) {
	testlog.Start(t)
	body := gdsfixture.New().
		Record(stream.EndLib, stream.NoData).
		End().
		Record(stream.Header, stream.Int2, gdsfixture.Int16s(3)).
		Bytes()

	fr := frame.NewReader(bytes.NewReader(body), frame.DefaultLimits())
	if _, err := fr.Next(); err != nil {
		t.Fatalf("first record: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := fr.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("call %d after sentinel: expected io.EOF, got %v", i, err)
		}
	}
	if fr.Offset() != 6 {
		t.Fatalf("reader consumed past the sentinel: offset=%d", fr.Offset())
	}
}

func TestNextEmptyInput(t *testing.T) {
	testlog.Start(t)
	fr := frame.NewReader(bytes.NewReader(nil), frame.DefaultLimits())
	if _, err := fr.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestNextTruncatedPrefix(t *testing.T) {
	testlog.Start(t)
	body := gdsfixture.New().Record(stream.EndStr, stream.NoData).Raw(0x00).Bytes()
	fr := frame.NewReader(bytes.NewReader(body), frame.DefaultLimits())
	if _, err := fr.Next(); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := fr.Next()
	var te *stream.TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Offset != 4 || te.Need != 2 || te.Have != 1 {
		t.Fatalf("unexpected truncation: %+v", te)
	}
	if !errors.Is(err, stream.ErrTruncated) {
		t.Fatalf("expected ErrTruncated in chain")
	}
	if _, err := fr.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after fatal error, got %v", err)
	}
}

func TestNextTruncatedBody(t *testing.T) {
	testlog.Start(t)
	// Declares 12 bytes, supplies 7.
	fr := frame.NewReader(bytes.NewReader([]byte{0x00, 0x0c, 0x03, 0x05, 0x01, 0x02, 0x03}), frame.DefaultLimits())
	_, err := fr.Next()
	var te *stream.TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Offset != 2 || te.Need != 10 || te.Have != 5 {
		t.Fatalf("unexpected truncation: %+v", te)
	}
}

func TestNextRejectsInvalidLengths(t *testing.T) {
	testlog.Start(t)
	for _, raw := range [][]byte{
		{0x00, 0x02, 0x00, 0x00},
		{0x00, 0x03, 0x00, 0x00},
		{0x00, 0x05, 0x00, 0x00, 0x00},
	} {
		fr := frame.NewReader(bytes.NewReader(raw), frame.DefaultLimits())
		_, err := fr.Next()
		var me *stream.MalformedError
		if !errors.As(err, &me) {
			t.Fatalf("% x: expected MalformedError, got %v", raw, err)
		}
		if !me.Framing || me.Offset != 0 {
			t.Fatalf("% x: unexpected error fields: %+v", raw, me)
		}
		if !errors.Is(err, stream.ErrMalformed) {
			t.Fatalf("% x: expected ErrMalformed in chain", raw)
		}
	}
}

func TestNextEnforcesLimit(t *testing.T) {
	testlog.Start(t)
	body := gdsfixture.New().Record(stream.XY, stream.Int4, make([]byte, 16)).Bytes()
	fr := frame.NewReader(bytes.NewReader(body), frame.Limits{MaxRecordBytes: 12})
	_, err := fr.Next()
	if !errors.Is(err, stream.ErrRecordTooLarge) {
		t.Fatalf("expected ErrRecordTooLarge, got %v", err)
	}
	if !errors.Is(err, stream.ErrMalformed) {
		t.Fatalf("expected ErrMalformed in chain, got %v", err)
	}
}

func TestNextHandlesShortReads(t *testing.T) {
	testlog.Start(t)
	body := gdsfixture.Library().End().Bytes()
	fr := frame.NewReader(iotest.OneByteReader(bytes.NewReader(body)), frame.DefaultLimits())
	count := 0
	for {
		_, err := fr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("record %d: %v", count, err)
		}
		count++
	}
	if count != 17 {
		t.Fatalf("record count mismatch: got=%d want=17", count)
	}
}

func TestNextPropagatesReadErrors(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("disk gone")
	fr := frame.NewReader(iotest.ErrReader(boom), frame.DefaultLimits())
	if _, err := fr.Next(); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
}
