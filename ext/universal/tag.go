package universal

const DefaultTagText = "Universal DOS/Windows executable built by dualexe"

// Tag is the identification string placed between the relocation table and
// the transplanted PE header. Neither loader reads it.
type Tag []byte

// NewTag null-terminates text and pads it with zeros to a 4-byte boundary.
func NewTag(text string) Tag {
	n := len(text) + 1
	n += (4 - n%4) % 4

	tag := make(Tag, n)
	copy(tag, text)
	return tag
}
