package universal

// assemble pads the patched legacy executable to winOffset and appends the
// untouched PE image.
func assemble(j *job) error {
	image := make([]byte, j.winOffset, j.winOffset+len(j.win))
	copy(image, j.out)
	j.image = append(image, j.win...)

	j.log.Debugf("image is 0x%x bytes, PE image at 0x%x", len(j.image), j.winOffset)
	return nil
}
