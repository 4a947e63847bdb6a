package fjord

import "encoding/binary"

// cursor reads little-endian fields from a byte slice with explicit bounds
// checking. The container format never declares its own length, so every
// read here must fail closed on a truncated input rather than read past
// the end of the supplied slice.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) require(n int) error {
	if c.remaining() < n {
		return ErrTruncatedData
	}
	return nil
}

func (c *cursor) readU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) readU16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) readU32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// readBytes returns a slice view (not a copy) of the next n bytes.
func (c *cursor) readBytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}
