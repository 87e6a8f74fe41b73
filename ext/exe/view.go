package exe

import (
	"encoding/binary"
)

// Field is a little-endian integer at a fixed offset from the start of a header.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// View gives bounds-checked access to header fields inside a byte buffer.
// A View does not own the buffer; writes go straight through to it.
type View struct {
	data []byte
	base int
}

func NewView(data []byte) View {
	return View{data: data}
}

// At returns a view whose field offsets are relative to off.
func (v View) At(off int) View {
	return View{data: v.data, base: v.base + off}
}

func (v View) Base() int {
	return v.base
}

func (v View) span(f Field) (int, error) {
	off := v.base + f.Offset
	if off < 0 || f.Size < 0 || off+f.Size > len(v.data) {
		return 0, formatErrorf(f, off, "out of bounds (buffer is 0x%x bytes)", len(v.data))
	}
	return off, nil
}

func (v View) Uint16(f Field) (uint16, error) {
	off, err := v.span(f)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v.data[off:]), nil
}

func (v View) Uint32(f Field) (uint32, error) {
	off, err := v.span(f)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v.data[off:]), nil
}

func (v View) PutUint16(f Field, x uint16) error {
	off, err := v.span(f)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(v.data[off:], x)
	return nil
}

func (v View) PutUint32(f Field, x uint32) error {
	off, err := v.span(f)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(v.data[off:], x)
	return nil
}

// Bytes returns the n bytes at off, sharing storage with the view.
func (v View) Bytes(name string, off, n int) ([]byte, error) {
	start, err := v.span(Field{Name: name, Offset: off, Size: n})
	if err != nil {
		return nil, err
	}
	return v.data[start : start+n], nil
}
