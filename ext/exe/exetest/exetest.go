// Package exetest builds small synthetic MZ and PE images for tests.
package exetest

import (
	"encoding/binary"
)

const (
	MachineI386  = 0x14c
	MachineAMD64 = 0x8664

	OptionalSizePE32     = 224
	OptionalSizePE32Plus = 240
)

// Dos describes an MZ executable. The header region is HeaderParagraphs*16
// bytes long and is followed by Code; Overlay is appended past the declared
// image end.
type Dos struct {
	Relocs           int
	RelocOffset      int
	HeaderParagraphs int
	Code             []byte
	Overlay          []byte
}

func (d Dos) Bytes() []byte {
	header := d.HeaderParagraphs * 16
	if d.RelocOffset+4*d.Relocs > header && d.Relocs > 0 {
		panic("exetest: relocation table does not fit the header")
	}

	size := header + len(d.Code)
	buf := make([]byte, size, size+len(d.Overlay))
	buf[0], buf[1] = 'M', 'Z'

	le := binary.LittleEndian
	le.PutUint16(buf[0x02:], uint16(size%512))
	le.PutUint16(buf[0x04:], uint16((size+511)/512))
	le.PutUint16(buf[0x06:], uint16(d.Relocs))
	le.PutUint16(buf[0x08:], uint16(d.HeaderParagraphs))
	le.PutUint16(buf[0x18:], uint16(d.RelocOffset))
	for i := 0; i < d.Relocs; i++ {
		le.PutUint32(buf[d.RelocOffset+4*i:], RelocEntry(i))
	}

	copy(buf[header:], d.Code)
	return append(buf, d.Overlay...)
}

// RelocEntry is the segment:offset pair stored for relocation i.
func RelocEntry(i int) uint32 {
	return uint32(0x0001_0000 + 0x10*i)
}

// BWStub returns an extender header of size bytes whose new header pointer
// holds headerOffset.
func BWStub(headerOffset uint32, size int) []byte {
	stub := make([]byte, max(size, 0x20))
	stub[0], stub[1] = 'B', 'W'
	binary.LittleEndian.PutUint32(stub[0x1c:], headerOffset)
	return stub
}

type Section struct {
	Name string

	VirtualSize    uint32
	VirtualAddress uint32
	RawSize        uint32
	RawOffset      uint32
	RelocOffset    uint32
	LineOffset     uint32
}

// Pe describes a PE image. Zero values pick a PE32 i386 image with its
// header at 0x80.
type Pe struct {
	HeaderOffset  int
	Machine       uint16
	OptionalMagic uint16
	OptionalSize  int
	SizeOfHeaders uint32
	Sections      []Section

	// FileSize pads the image; it never truncates headers or section data.
	FileSize int
}

func (p Pe) headerOffset() int {
	if p.HeaderOffset == 0 {
		return 0x80
	}
	return p.HeaderOffset
}

// HeaderSize is the length of the PE header, optional header and section table.
func (p Pe) HeaderSize() int {
	return 24 + p.OptionalSize + 40*len(p.Sections)
}

func (p Pe) Bytes() []byte {
	le := binary.LittleEndian
	offset := p.headerOffset()

	size := max(offset+p.HeaderSize(), p.FileSize)
	for _, s := range p.Sections {
		size = max(size, int(s.RawOffset)+int(s.RawSize))
	}
	buf := make([]byte, size)

	buf[0], buf[1] = 'M', 'Z'
	le.PutUint32(buf[0x3c:], uint32(offset))

	machine := p.Machine
	if machine == 0 {
		machine = MachineI386
	}
	copy(buf[offset:], "PE\x00\x00")
	le.PutUint16(buf[offset+4:], machine)
	le.PutUint16(buf[offset+6:], uint16(len(p.Sections)))
	le.PutUint16(buf[offset+20:], uint16(p.OptionalSize))
	le.PutUint16(buf[offset+22:], 0x0102)

	optional := buf[offset+24:][:p.OptionalSize]
	magic := p.OptionalMagic
	if magic == 0 {
		magic = 0x10b
	}
	if len(optional) >= 2 {
		le.PutUint16(optional, magic)
	}
	if len(optional) >= 64 {
		le.PutUint32(optional[60:], p.SizeOfHeaders)
	}
	switch {
	case magic == 0x10b && len(optional) >= 96:
		le.PutUint32(optional[92:], uint32((len(optional)-96)/8))
	case magic == 0x20b && len(optional) >= 112:
		le.PutUint32(optional[108:], uint32((len(optional)-112)/8))
	}

	table := buf[offset+24+p.OptionalSize:]
	for i, s := range p.Sections {
		record := table[i*40:][:40]
		copy(record[:8], s.Name)
		le.PutUint32(record[8:], s.VirtualSize)
		le.PutUint32(record[12:], s.VirtualAddress)
		le.PutUint32(record[16:], s.RawSize)
		le.PutUint32(record[20:], s.RawOffset)
		le.PutUint32(record[24:], s.RelocOffset)
		le.PutUint32(record[28:], s.LineOffset)

		data := buf[s.RawOffset:][:s.RawSize]
		for j := range data {
			data[j] = byte(i + 1)
		}
	}

	return buf
}
