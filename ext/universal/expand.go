package universal

import (
	"fmt"
	"math"

	"github.com/dexter3k/watre/dualexe/ext/exe"
)

// expandHeaderRegion grows the MZ header until it can hold the relocation
// table, the tag and the PE headers. The zero bytes go right after the
// existing header so the load image keeps its layout.
func expandHeaderRegion(j *job) error {
	j.minRegion = exe.DosPrefixSize + 4*j.legacy.relocs + len(j.tag) + j.modern.size
	j.report.MinRegion = j.minRegion

	region := j.legacy.region()
	if region >= j.minRegion {
		j.log.Debugf("header region 0x%x already holds 0x%x bytes", region, j.minRegion)
		return j.checkStub(0)
	}

	paragraphs := (j.minRegion + exe.ParagraphSize - 1) / exe.ParagraphSize
	if paragraphs > math.MaxUint16 {
		return &exe.FormatError{
			Field:  exe.DosHeaderParagraphs.Name,
			Offset: exe.DosHeaderParagraphs.Offset,
			Reason: fmt.Sprintf("0x%x header bytes need %d paragraphs", j.minRegion, paragraphs),
		}
	}
	inserted := paragraphs*exe.ParagraphSize - region

	// A table crossing the old header end would be split by the insertion.
	var table []byte
	relocEnd := j.legacy.relocOffset + 4*j.legacy.relocs
	if j.legacy.relocs > 0 && j.legacy.relocOffset < region && relocEnd > region {
		if relocEnd > paragraphs*exe.ParagraphSize {
			return &exe.FormatError{
				Field:  exe.DosRelocTable.Name,
				Offset: exe.DosRelocTable.Offset,
				Reason: fmt.Sprintf("relocation table 0x%x-0x%x does not fit the grown header", j.legacy.relocOffset, relocEnd),
			}
		}
		table = append([]byte(nil), j.out[j.legacy.relocOffset:relocEnd]...)
	}

	out := make([]byte, 0, len(j.out)+inserted)
	out = append(out, j.out[:region]...)
	out = append(out, make([]byte, inserted)...)
	out = append(out, j.out[region:]...)
	j.out = out
	copy(j.out[j.legacy.relocOffset:], table)

	v := exe.NewView(j.out)
	if err := v.PutUint16(exe.DosHeaderParagraphs, uint16(paragraphs)); err != nil {
		return err
	}
	imageSize := j.legacy.imageSize + inserted
	if err := exe.WriteImageSize(v, imageSize); err != nil {
		return err
	}

	// A relocation table stored past the header moves with the load image.
	if j.legacy.relocs > 0 && j.legacy.relocOffset >= region {
		relocOffset := j.legacy.relocOffset + inserted
		if relocOffset > math.MaxUint16 {
			return &exe.FormatError{
				Field:  exe.DosRelocTable.Name,
				Offset: exe.DosRelocTable.Offset,
				Reason: fmt.Sprintf("relocation table shifted to 0x%x", relocOffset),
			}
		}
		if err := v.PutUint16(exe.DosRelocTable, uint16(relocOffset)); err != nil {
			return err
		}
		j.legacy.relocOffset = relocOffset
	}

	j.log.Debugf("header region grown from %d to %d paragraphs (+0x%x bytes), image 0x%x bytes",
		j.legacy.paragraphs, paragraphs, inserted, imageSize)

	j.legacy.paragraphs = paragraphs
	j.legacy.imageSize = imageSize
	j.report.ParagraphsAfter = paragraphs
	j.report.Inserted = inserted
	j.report.ImageSize = imageSize

	return j.checkStub(inserted)
}

// checkStub looks for an extender header at the end of the load image and
// shifts its pointer by the inserted byte count.
func (j *job) checkStub(inserted int) error {
	kind, tag := exe.ClassifyStub(j.out, j.legacy.imageSize)
	j.report.Stub = kind

	switch kind {
	case exe.StubNone:
		return nil
	case exe.StubUnsupported:
		return &exe.FormatError{
			Field:  exe.StubMagic.Name,
			Offset: j.legacy.imageSize,
			Reason: fmt.Sprintf("%q header is located through e_lfanew, which the PE header replaces", tag),
		}
	case exe.StubBW:
	default:
		panic(fmt.Errorf("unknown stub kind %v", kind))
	}

	if inserted == 0 {
		return nil
	}

	stub := exe.NewView(j.out).At(j.legacy.imageSize)
	offset, err := stub.Uint32(exe.StubNewHeader)
	if err != nil {
		return err
	}

	patched := uint64(offset) + uint64(inserted)
	if patched > math.MaxUint32 {
		return &exe.FormatError{
			Field:  exe.StubNewHeader.Name,
			Offset: stub.Base() + exe.StubNewHeader.Offset,
			Reason: fmt.Sprintf("0x%x + 0x%x overflows", offset, inserted),
		}
	}
	if err := stub.PutUint32(exe.StubNewHeader, uint32(patched)); err != nil {
		return err
	}
	j.report.StubPatched = true

	j.log.Debugf("%s stub at 0x%x: new header offset 0x%x -> 0x%x", tag, stub.Base(), offset, patched)
	return nil
}
