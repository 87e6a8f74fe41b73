package universal

import (
	"fmt"
	"math"

	"github.com/dexter3k/watre/dualexe/ext/exe"
)

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// rebaseSections points the copied section table at the PE image appended
// after the padded legacy executable. Zero pointers mean "no data" and stay.
func rebaseSections(j *job) error {
	j.winOffset = alignUp(len(j.out), exe.PageSize)
	j.report.WinOffset = j.winOffset

	pe := exe.NewView(j.out).At(j.report.HeaderOffset)

	if j.modern.variant.HasSizeOfHeaders() {
		optional := pe.At(j.modern.optionalOffset())
		old, err := optional.Uint32(exe.OptionalSizeOfHeaders)
		if err != nil {
			return err
		}
		if err := optional.PutUint32(exe.OptionalSizeOfHeaders, uint32(j.minRegion)); err != nil {
			return err
		}
		j.report.SizeOfHeadersRewritten = true
		j.log.Debugf("SizeOfHeaders 0x%x -> 0x%x", old, j.minRegion)
	}

	table := pe.At(j.modern.sectionTableOffset())
	for i := 0; i < j.modern.sections; i++ {
		record := table.At(i * exe.SectionSize)
		for _, field := range exe.SectionPointers {
			ptr, err := record.Uint32(field)
			if err != nil {
				return err
			}
			if ptr == 0 {
				continue
			}

			rebased := uint64(ptr) + uint64(j.winOffset)
			if rebased > math.MaxUint32 {
				return &exe.FormatError{
					Field:  field.Name,
					Offset: record.Base() + field.Offset,
					Reason: fmt.Sprintf("section %d: 0x%x + 0x%x overflows", i, ptr, j.winOffset),
				}
			}
			if err := record.PutUint32(field, uint32(rebased)); err != nil {
				return err
			}
			j.report.Rebased++
		}
	}

	j.log.Debugf("%d section pointers rebased by 0x%x", j.report.Rebased, j.winOffset)
	return nil
}
