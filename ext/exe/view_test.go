package exe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewReadsRelativeToBase(t *testing.T) {
	data := make([]byte, 0x100)
	data[0x86] = 0x03
	data[0x94], data[0x95] = 0xe0, 0x00

	pe := NewView(data).At(0x80)
	assert.Equal(t, 0x80, pe.Base())

	sections, err := pe.Uint16(PeSections)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), sections)

	size, err := pe.Uint16(PeOptionalSize)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xe0), size)
}

func TestViewWritesThrough(t *testing.T) {
	data := make([]byte, 0x40)
	v := NewView(data)

	require.NoError(t, v.PutUint32(DosNewHeader, 0x12345678))
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, data[0x3c:0x40])

	require.NoError(t, v.PutUint16(DosRelocTable, 0x40))
	got, err := v.Uint16(DosRelocTable)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x40), got)
}

func TestViewOutOfBounds(t *testing.T) {
	v := NewView(make([]byte, 0x3e))

	_, err := v.Uint32(DosNewHeader)
	require.Error(t, err)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "e_lfanew", formatErr.Field)
	assert.Equal(t, 0x3c, formatErr.Offset)

	assert.Error(t, v.PutUint32(DosNewHeader, 1))
	assert.Error(t, v.At(-0x40).PutUint16(DosMagic, 1))
}

func TestViewBytes(t *testing.T) {
	data := []byte("0123456789")
	v := NewView(data).At(2)

	b, err := v.Bytes("digits", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("345"), b)

	b[0] = 'x'
	assert.Equal(t, byte('x'), data[3], "Bytes must share storage")

	_, err = v.Bytes("digits", 5, 4)
	assert.True(t, IsFormatError(err))

	_, err = v.Bytes("digits", 0, -1)
	assert.True(t, IsFormatError(err))
}
