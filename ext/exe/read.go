package exe

import (
	"bytes"
	"encoding/binary"
)

// Read parses the MZ header and, when e_lfanew points at a PE signature, the
// PE headers and section table. Section data is not loaded.
func Read(data []byte) (*File, error) {
	r := bytes.NewReader(data)

	var dosHeader DosHeader
	if err := binary.Read(r, binary.LittleEndian, &dosHeader); err != nil {
		return nil, formatErrorf(DosPrefix, DosPrefix.Offset, "truncated (buffer is 0x%x bytes)", len(data))
	}
	if dosHeader.Magic != MagicMZ && dosHeader.Magic != MagicZM {
		return nil, formatErrorf(DosMagic, DosMagic.Offset, "invalid DOS header magic: %04x", dosHeader.Magic)
	}

	v := NewView(data)
	imageSize, err := ReadImageSize(v)
	if err != nil {
		return nil, err
	}
	stub, _ := ClassifyStub(data, imageSize)

	file := File{
		Dos:       dosHeader,
		ImageSize: imageSize,
		Stub:      stub,
	}

	peOffset := int64(dosHeader.PeHeaderOffset)
	if peOffset+PeHeaderSize > int64(len(data)) {
		return &file, nil
	}
	if magic, _ := v.At(int(peOffset)).Uint32(PeMagic); magic != MagicPE {
		return &file, nil
	}

	if _, err := r.Seek(peOffset, 0); err != nil {
		return nil, err
	}
	var peHeader PeHeader
	if err := binary.Read(r, binary.LittleEndian, &peHeader); err != nil {
		return nil, formatErrorf(PeMagic, int(peOffset), "PE header truncated")
	}
	file.Pe = &peHeader

	optional := v.At(int(peOffset) + PeHeaderSize)
	if peHeader.OptionalHeaderSize > MinimalOptionalSize {
		magic, err := optional.Uint16(OptionalMagic)
		if err != nil {
			return nil, err
		}
		file.Optional = ClassifyOptional(peHeader.OptionalHeaderSize, magic)

		file.SizeOfHeaders, err = optional.Uint32(OptionalSizeOfHeaders)
		if err != nil {
			return nil, err
		}
	}

	if _, err := r.Seek(int64(optional.Base())+int64(peHeader.OptionalHeaderSize), 0); err != nil {
		return nil, err
	}

	sections := make([]SectionEntry, 0, peHeader.Sections)
	for i := 0; i < int(peHeader.Sections); i++ {
		var record sectionRecord
		if err := binary.Read(r, binary.LittleEndian, &record); err != nil {
			offset := optional.Base() + int(peHeader.OptionalHeaderSize) + i*SectionSize
			return nil, formatErrorf(PeSections, offset, "section %d of %d truncated", i, peHeader.Sections)
		}

		idx := bytes.IndexByte(record.Name[:], 0)
		if idx == -1 {
			idx = len(record.Name)
		}

		sections = append(sections, SectionEntry{
			Name:            string(record.Name[:idx]),
			VirtualSize:     record.VirtualSize,
			VirtualAddress:  record.VirtualAddress,
			RawSize:         record.RawSize,
			RawOffset:       record.RawOffset,
			RelocOffset:     record.RelocOffset,
			LineOffset:      record.LineOffset,
			Characteristics: record.Characteristics,
		})
	}
	file.Sections = sections

	return &file, nil
}
