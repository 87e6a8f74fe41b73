package exe

import (
	"fmt"
)

// StubKind classifies what follows the MZ load image.
type StubKind int

const (
	// StubNone covers both the end of the file and plain overlay data.
	StubNone StubKind = iota
	// StubBW is a DOS/4G style extender header with its own new header pointer.
	StubBW
	// StubUnsupported is a new executable header located through e_lfanew.
	StubUnsupported
)

func (k StubKind) String() string {
	switch k {
	case StubNone:
		return "none"
	case StubBW:
		return "BW"
	case StubUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("StubKind(%d)", int(k))
	}
}

// ClassifyStub inspects the two bytes at the end of the load image.
func ClassifyStub(data []byte, imageEnd int) (StubKind, string) {
	if imageEnd < 0 || imageEnd+2 > len(data) {
		return StubNone, ""
	}

	tag := string(data[imageEnd:][:2])
	switch tag {
	case "BW":
		return StubBW, tag
	case "LE", "LX", "NE", "PE":
		return StubUnsupported, tag
	default:
		return StubNone, tag
	}
}

// OptionalVariant classifies the PE optional header.
type OptionalVariant int

const (
	OptionalMinimal OptionalVariant = iota
	OptionalPE32
	OptionalPE32Plus
	OptionalUnknown
)

func (o OptionalVariant) String() string {
	switch o {
	case OptionalMinimal:
		return "minimal"
	case OptionalPE32:
		return "PE32"
	case OptionalPE32Plus:
		return "PE32+"
	case OptionalUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("OptionalVariant(%d)", int(o))
	}
}

// HasSizeOfHeaders reports whether the optional header is large enough to
// carry SizeOfHeaders.
func (o OptionalVariant) HasSizeOfHeaders() bool {
	return o != OptionalMinimal
}

func ClassifyOptional(size, magic uint16) OptionalVariant {
	if size <= MinimalOptionalSize {
		return OptionalMinimal
	}

	switch magic {
	case OptionalMagicPE32:
		return OptionalPE32
	case OptionalMagicPE32Plus:
		return OptionalPE32Plus
	default:
		return OptionalUnknown
	}
}
