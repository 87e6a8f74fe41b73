package universal

import (
	"testing"

	"github.com/dexter3k/watre/dualexe/ext/exe/exetest"
	"github.com/loft-sh/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelocateRelocTableOverlapping(t *testing.T) {
	out := make([]byte, 0x100)
	le.PutUint16(out[0x18:], 0x30)
	for i := 0; i < 8; i++ {
		le.PutUint32(out[0x30+4*i:], exetest.RelocEntry(i))
	}

	j := &job{
		out:    out,
		log:    log.Discard,
		legacy: legacyHeader{relocs: 8, relocOffset: 0x30, paragraphs: 0x10, imageSize: 0x100},
	}
	require.NoError(t, relocateRelocTable(j))

	assert.True(t, j.report.RelocTableMoved)
	assert.Equal(t, 0x40, j.legacy.relocOffset)
	assert.Equal(t, uint16(0x40), le.Uint16(j.out[0x18:]))
	for i := 0; i < 8; i++ {
		assert.Equal(t, exetest.RelocEntry(i), le.Uint32(j.out[0x40+4*i:]), "relocation %d", i)
	}
}

func TestRelocateRelocTableInPlace(t *testing.T) {
	out := make([]byte, 0x100)
	le.PutUint16(out[0x18:], 0x50)

	j := &job{
		out:    out,
		log:    log.Discard,
		legacy: legacyHeader{relocs: 2, relocOffset: 0x50, paragraphs: 0x10, imageSize: 0x100},
	}
	require.NoError(t, relocateRelocTable(j))

	assert.False(t, j.report.RelocTableMoved)
	assert.Equal(t, uint16(0x50), le.Uint16(j.out[0x18:]))
}

func TestRelocateRelocTableEmpty(t *testing.T) {
	out := make([]byte, 0x40)
	le.PutUint16(out[0x18:], 0x1c)

	j := &job{
		out:    out,
		log:    log.Discard,
		legacy: legacyHeader{relocOffset: 0x1c, paragraphs: 4, imageSize: 0x40},
	}
	require.NoError(t, relocateRelocTable(j))

	assert.Equal(t, uint16(0x40), le.Uint16(j.out[0x18:]))
}
