package universal

import (
	"fmt"

	"github.com/dexter3k/watre/dualexe/ext/exe"
)

type legacyHeader struct {
	relocs      int
	paragraphs  int
	imageSize   int
	relocOffset int
}

func (h legacyHeader) region() int {
	return h.paragraphs * exe.ParagraphSize
}

func readLegacyHeader(data []byte) (legacyHeader, error) {
	var header legacyHeader

	if len(data) < exe.DosPrefixSize {
		return header, &exe.FormatError{
			Field:  exe.DosPrefix.Name,
			Offset: exe.DosPrefix.Offset,
			Reason: fmt.Sprintf("legacy input is 0x%x bytes, shorter than an MZ header", len(data)),
		}
	}

	v := exe.NewView(data)
	magic, err := v.Uint16(exe.DosMagic)
	if err != nil {
		return header, err
	}
	if magic != exe.MagicMZ && magic != exe.MagicZM {
		return header, &exe.FormatError{
			Field:  exe.DosMagic.Name,
			Offset: exe.DosMagic.Offset,
			Reason: "legacy input is not an MZ executable",
		}
	}

	relocs, err := v.Uint16(exe.DosRelocs)
	if err != nil {
		return header, err
	}
	paragraphs, err := v.Uint16(exe.DosHeaderParagraphs)
	if err != nil {
		return header, err
	}
	relocOffset, err := v.Uint16(exe.DosRelocTable)
	if err != nil {
		return header, err
	}
	imageSize, err := exe.ReadImageSize(v)
	if err != nil {
		return header, err
	}

	header = legacyHeader{
		relocs:      int(relocs),
		paragraphs:  int(paragraphs),
		imageSize:   imageSize,
		relocOffset: int(relocOffset),
	}

	if imageSize > len(data) {
		return header, &exe.FormatError{
			Field:  exe.DosPages.Name,
			Offset: exe.DosPages.Offset,
			Reason: fmt.Sprintf("declared image size 0x%x exceeds the 0x%x byte input", imageSize, len(data)),
		}
	}
	if header.region() > imageSize {
		return header, &exe.FormatError{
			Field:  exe.DosHeaderParagraphs.Name,
			Offset: exe.DosHeaderParagraphs.Offset,
			Reason: fmt.Sprintf("header region 0x%x exceeds the declared image size 0x%x", header.region(), imageSize),
		}
	}
	if relocs > 0 {
		if _, err := v.Bytes("relocation table", header.relocOffset, 4*header.relocs); err != nil {
			return header, err
		}
	}

	return header, nil
}
