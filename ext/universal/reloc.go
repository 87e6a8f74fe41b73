package universal

import (
	"github.com/dexter3k/watre/dualexe/ext/exe"
)

// relocateRelocTable moves a relocation table that starts inside the MZ
// prefix to DosPrefixSize, where it no longer overlaps e_lfanew.
func relocateRelocTable(j *job) error {
	if j.legacy.relocOffset >= exe.DosPrefixSize {
		return nil
	}

	v := exe.NewView(j.out)
	n := 4 * j.legacy.relocs
	src, err := v.Bytes("relocation table", j.legacy.relocOffset, n)
	if err != nil {
		return err
	}
	dst, err := v.Bytes("relocation table", exe.DosPrefixSize, n)
	if err != nil {
		return err
	}
	copy(dst, src)

	if err := v.PutUint16(exe.DosRelocTable, exe.DosPrefixSize); err != nil {
		return err
	}

	j.log.Debugf("relocation table moved from 0x%x to 0x%x (%d entries)", j.legacy.relocOffset, exe.DosPrefixSize, j.legacy.relocs)

	j.legacy.relocOffset = exe.DosPrefixSize
	j.report.RelocTableMoved = true
	return nil
}
