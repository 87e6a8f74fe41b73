// Package universal overlays a PE header onto an MZ executable so the result
// runs under both DOS and Windows, with the PE image appended unchanged.
package universal

import (
	"github.com/dexter3k/watre/dualexe/ext/exe"
	"github.com/loft-sh/log"
	"github.com/pkg/errors"
)

type Options struct {
	// Tag defaults to DefaultTagText.
	Tag    string
	Logger log.Logger
}

// Report describes what a build changed in the legacy executable.
type Report struct {
	ParagraphsBefore int
	ParagraphsAfter  int
	Inserted         int
	ImageSize        int

	RelocTableMoved bool
	Stub            exe.StubKind
	StubPatched     bool

	TagOffset    int
	HeaderOffset int
	HeaderSize   int
	MinRegion    int

	Optional               exe.OptionalVariant
	SizeOfHeadersRewritten bool

	WinOffset int
	Rebased   int
}

type Image struct {
	Bytes  []byte
	Report Report
}

type job struct {
	dos []byte
	win []byte
	tag Tag
	log log.Logger

	legacy legacyHeader
	modern modernHeader

	// out is the legacy executable being patched; it is a private copy of dos.
	out       []byte
	minRegion int
	winOffset int

	image  []byte
	report Report
}

type stage struct {
	name string
	run  func(*job) error
}

func runPipeline(j *job, stages ...stage) error {
	for _, s := range stages {
		if err := s.run(j); err != nil {
			j.log.Debugf("stage %s failed: %v", s.name, err)
			return errors.Wrap(err, s.name)
		}
	}
	return nil
}

// Build combines a DOS executable and a PE executable into one image. Neither
// input is modified.
func Build(dos, win []byte, opts Options) (*Image, error) {
	text := opts.Tag
	if text == "" {
		text = DefaultTagText
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard
	}

	j := &job{
		dos: dos,
		win: win,
		tag: NewTag(text),
		log: logger,
	}

	err := runPipeline(j,
		stage{"read legacy header", readLegacy},
		stage{"locate modern header", locateModern},
		stage{"expand header region", expandHeaderRegion},
		stage{"relocate relocation table", relocateRelocTable},
		stage{"transplant header", transplantHeader},
		stage{"rebase sections", rebaseSections},
		stage{"assemble", assemble},
	)
	if err != nil {
		return nil, err
	}

	return &Image{
		Bytes:  j.image,
		Report: j.report,
	}, nil
}

func readLegacy(j *job) error {
	header, err := readLegacyHeader(j.dos)
	if err != nil {
		return err
	}

	j.legacy = header
	j.out = append(make([]byte, 0, len(j.dos)), j.dos...)
	j.report.ParagraphsBefore = header.paragraphs
	j.report.ParagraphsAfter = header.paragraphs
	j.report.ImageSize = header.imageSize

	j.log.Debugf("legacy header: %d relocs at 0x%x, %d paragraphs, image 0x%x bytes",
		header.relocs, header.relocOffset, header.paragraphs, header.imageSize)
	return nil
}

func locateModern(j *job) error {
	header, err := locateModernHeader(j.win)
	if err != nil {
		return err
	}

	j.modern = header
	j.report.HeaderSize = header.size
	j.report.Optional = header.variant

	j.log.Debugf("modern header at 0x%x: %d sections, %s optional header of 0x%x bytes, 0x%x bytes total",
		header.offset, header.sections, header.variant, header.optionalSize, header.size)
	return nil
}
