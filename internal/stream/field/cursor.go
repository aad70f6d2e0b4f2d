package field

// Cursor walks a record payload front to back. Errors carry offsets relative
// to the start of the payload.
type Cursor struct {
	raw []byte
	off int
}

func NewCursor(payload []byte) *Cursor {
	return &Cursor{raw: payload}
}

func (c *Cursor) Remaining() int {
	return len(c.raw) - c.off
}

func (c *Cursor) Offset() int {
	return c.off
}

func (c *Cursor) window(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, &ShortError{Offset: c.off, Need: n, Have: c.Remaining()}
	}
	b := c.raw[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *Cursor) Int16() (int16, error) {
	b, err := c.window(Int16Len)
	if err != nil {
		return 0, err
	}
	return Int16(b)
}

func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.window(Int16Len)
	if err != nil {
		return 0, err
	}
	return Uint16(b)
}

func (c *Cursor) Int32() (int32, error) {
	b, err := c.window(Int32Len)
	if err != nil {
		return 0, err
	}
	return Int32(b)
}

func (c *Cursor) Real64() (float64, error) {
	b, err := c.window(Real64Len)
	if err != nil {
		return 0, err
	}
	return Real64(b)
}

func (c *Cursor) Timestamp() (Timestamp, error) {
	b, err := c.window(TimestampLen)
	if err != nil {
		return Timestamp{}, err
	}
	return DecodeTimestamp(b)
}

func (c *Cursor) Presentation() (Presentation, error) {
	b, err := c.window(PresentationLen)
	if err != nil {
		return Presentation{}, err
	}
	return DecodePresentation(b)
}

// Rest consumes everything left as a filtered ASCII string.
func (c *Cursor) Rest() string {
	s := ASCII(c.raw[c.off:])
	c.off = len(c.raw)
	return s
}

// Points consumes everything left as coordinate pairs.
func (c *Cursor) Points() ([]Point, error) {
	pts, err := Points(c.raw[c.off:])
	if err != nil {
		return nil, err
	}
	c.off = len(c.raw)
	return pts, nil
}
