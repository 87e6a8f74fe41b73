package universal

import (
	"fmt"

	"github.com/dexter3k/watre/dualexe/ext/exe"
)

type modernHeader struct {
	offset       int
	sections     int
	optionalSize int
	variant      exe.OptionalVariant

	// size spans the PE header, optional header and section table.
	size int
}

func (h modernHeader) optionalOffset() int {
	return exe.PeHeaderSize
}

func (h modernHeader) sectionTableOffset() int {
	return exe.PeHeaderSize + h.optionalSize
}

func locateModernHeader(data []byte) (modernHeader, error) {
	var header modernHeader

	v := exe.NewView(data)
	magic, err := v.Uint16(exe.DosMagic)
	if err != nil {
		return header, err
	}
	if magic != exe.MagicMZ {
		return header, &exe.FormatError{
			Field:  exe.DosMagic.Name,
			Offset: exe.DosMagic.Offset,
			Reason: "modern input does not start with an MZ header",
		}
	}

	offset, err := v.Uint32(exe.DosNewHeader)
	if err != nil {
		return header, err
	}
	if int64(offset)+exe.PeHeaderSize > int64(len(data)) {
		return header, &exe.FormatError{
			Field:  exe.DosNewHeader.Name,
			Offset: exe.DosNewHeader.Offset,
			Reason: fmt.Sprintf("PE header pointer 0x%x is outside the 0x%x byte input", offset, len(data)),
		}
	}

	pe := v.At(int(offset))
	signature, err := pe.Uint32(exe.PeMagic)
	if err != nil {
		return header, err
	}
	if signature != exe.MagicPE {
		return header, &exe.FormatError{
			Field:  exe.PeMagic.Name,
			Offset: int(offset),
			Reason: fmt.Sprintf("invalid PE signature %08x", signature),
		}
	}

	sections, err := pe.Uint16(exe.PeSections)
	if err != nil {
		return header, err
	}
	optionalSize, err := pe.Uint16(exe.PeOptionalSize)
	if err != nil {
		return header, err
	}

	header = modernHeader{
		offset:       int(offset),
		sections:     int(sections),
		optionalSize: int(optionalSize),
		size:         exe.PeHeaderSize + int(optionalSize) + int(sections)*exe.SectionSize,
	}
	if header.offset+header.size > len(data) {
		return header, &exe.FormatError{
			Field:  exe.PeSections.Name,
			Offset: header.offset + exe.PeSections.Offset,
			Reason: fmt.Sprintf("PE headers need 0x%x bytes at 0x%x but the input is 0x%x bytes", header.size, header.offset, len(data)),
		}
	}

	var optionalMagic uint16
	if optionalSize > exe.MinimalOptionalSize {
		optionalMagic, err = pe.At(header.optionalOffset()).Uint16(exe.OptionalMagic)
		if err != nil {
			return header, err
		}
	}
	header.variant = exe.ClassifyOptional(optionalSize, optionalMagic)

	return header, nil
}
