package exe

const (
	MagicMZ = 0x5a4d
	MagicZM = 0x4d5a
	MagicPE = 0x4550

	OptionalMagicPE32     = 0x10b
	OptionalMagicPE32Plus = 0x20b

	ParagraphSize = 16
	PageSize      = 512

	// DosPrefixSize covers the MZ fields up to and including the new header pointer.
	DosPrefixSize = 0x40

	// PeHeaderSize is the signature plus the COFF file header.
	PeHeaderSize        = 24
	SectionSize         = 40
	MinimalOptionalSize = 64
)

var (
	DosPrefix           = Field{"DOS header", 0x00, DosPrefixSize}
	DosMagic            = Field{"e_magic", 0x00, 2}
	DosLastPageBytes    = Field{"e_cblp", 0x02, 2}
	DosPages            = Field{"e_cp", 0x04, 2}
	DosRelocs           = Field{"e_crlc", 0x06, 2}
	DosHeaderParagraphs = Field{"e_cparhdr", 0x08, 2}
	DosRelocTable       = Field{"e_lfarlc", 0x18, 2}
	DosNewHeader        = Field{"e_lfanew", 0x3c, 4}

	PeMagic        = Field{"Signature", 0, 4}
	PeSections     = Field{"NumberOfSections", 6, 2}
	PeOptionalSize = Field{"SizeOfOptionalHeader", 20, 2}

	// Relative to the start of the optional header.
	OptionalMagic         = Field{"Magic", 0, 2}
	OptionalSizeOfHeaders = Field{"SizeOfHeaders", 60, 4}

	// Relative to the start of a section record.
	SectionRawOffset   = Field{"PointerToRawData", 20, 4}
	SectionRelocOffset = Field{"PointerToRelocations", 24, 4}
	SectionLineOffset  = Field{"PointerToLinenumbers", 28, 4}

	// Relative to the start of an extender stub.
	StubMagic     = Field{"stub signature", 0x00, 2}
	StubNewHeader = Field{"stub new header offset", 0x1c, 4}
)

// SectionPointers are the section record fields holding file offsets.
var SectionPointers = []Field{SectionRawOffset, SectionRelocOffset, SectionLineOffset}

type DosHeader struct {
	Magic            uint16
	LastPageBytes    uint16
	Pages            uint16
	Relocs           uint16
	HeaderParagraphs uint16
	MinAlloc         uint16
	MaxAlloc         uint16
	SS               uint16
	SP               uint16
	Checksum         uint16
	IP               uint16
	CS               uint16
	RelocTable       uint16
	Overlay          uint16

	Unparsed [4*2 + 2 + 2 + 10*2]byte

	PeHeaderOffset uint32
}

type PeHeader struct {
	Magic    uint32
	Machine  uint16
	Sections uint16

	Unparsed [4 + 4 + 4]byte

	OptionalHeaderSize uint16
	Characteristics    uint16
}

type sectionRecord struct {
	Name           [8]byte
	VirtualSize    uint32
	VirtualAddress uint32
	RawSize        uint32
	RawOffset      uint32
	RelocOffset    uint32
	LineOffset     uint32
	Relocs         uint16
	Lines          uint16

	Characteristics uint32
}

type SectionEntry struct {
	Name string

	VirtualSize    uint32
	VirtualAddress uint32
	RawSize        uint32
	RawOffset      uint32
	RelocOffset    uint32
	LineOffset     uint32

	Characteristics uint32
}

type File struct {
	Dos       DosHeader
	ImageSize int
	Stub      StubKind

	// Pe is nil for plain DOS executables.
	Pe            *PeHeader
	Optional      OptionalVariant
	SizeOfHeaders uint32
	Sections      []SectionEntry
}

func (f *File) GetSection(name string) *SectionEntry {
	for i, entry := range f.Sections {
		if entry.Name != name {
			continue
		}

		return &f.Sections[i]
	}

	return nil
}
