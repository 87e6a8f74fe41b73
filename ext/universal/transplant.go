package universal

import (
	"fmt"

	"github.com/dexter3k/watre/dualexe/ext/exe"
)

// transplantHeader writes the tag and a copy of the PE headers behind the
// relocation table and points e_lfanew at the copy.
func transplantHeader(j *job) error {
	tagOffset := exe.DosPrefixSize + 4*j.legacy.relocs
	headerOffset := tagOffset + len(j.tag)
	end := headerOffset + j.modern.size

	if end > j.legacy.region() {
		panic(fmt.Errorf("PE header end 0x%x is past the 0x%x byte header region", end, j.legacy.region()))
	}

	relocEnd := j.legacy.relocOffset + 4*j.legacy.relocs
	if j.legacy.relocs > 0 && j.legacy.relocOffset < end && tagOffset < relocEnd {
		return &exe.FormatError{
			Field:  exe.DosRelocTable.Name,
			Offset: exe.DosRelocTable.Offset,
			Reason: fmt.Sprintf("relocation table 0x%x-0x%x overlaps the PE header copy at 0x%x-0x%x", j.legacy.relocOffset, relocEnd, tagOffset, end),
		}
	}

	copy(j.out[tagOffset:], j.tag)
	copy(j.out[headerOffset:end], j.win[j.modern.offset:][:j.modern.size])

	if err := exe.NewView(j.out).PutUint32(exe.DosNewHeader, uint32(headerOffset)); err != nil {
		return err
	}

	j.log.Debugf("tag at 0x%x, PE header copied to 0x%x-0x%x", tagOffset, headerOffset, end)

	j.report.TagOffset = tagOffset
	j.report.HeaderOffset = headerOffset
	return nil
}
