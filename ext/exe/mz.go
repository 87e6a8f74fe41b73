package exe

// DecodeImageSize turns the e_cblp/e_cp pair into a byte count. A non-zero
// e_cblp means the last of the e_cp pages is only partially used.
func DecodeImageSize(lastPageBytes, pages uint16) (int, error) {
	if lastPageBytes >= PageSize {
		return 0, formatErrorf(DosLastPageBytes, DosLastPageBytes.Offset, "0x%x is not below the page size", lastPageBytes)
	}
	if lastPageBytes == 0 {
		return int(pages) * PageSize, nil
	}
	if pages == 0 {
		return 0, formatErrorf(DosPages, DosPages.Offset, "zero pages with 0x%x bytes on the last page", lastPageBytes)
	}
	return (int(pages)-1)*PageSize + int(lastPageBytes), nil
}

func EncodeImageSize(size int) (lastPageBytes, pages uint16, err error) {
	if size < 0 {
		return 0, 0, formatErrorf(DosPages, DosPages.Offset, "negative image size %d", size)
	}
	count := (size + PageSize - 1) / PageSize
	if count > 0xffff {
		return 0, 0, formatErrorf(DosPages, DosPages.Offset, "image size 0x%x needs %d pages", size, count)
	}
	return uint16(size % PageSize), uint16(count), nil
}

// ReadImageSize returns the declared length of the MZ load image.
func ReadImageSize(v View) (int, error) {
	lastPageBytes, err := v.Uint16(DosLastPageBytes)
	if err != nil {
		return 0, err
	}
	pages, err := v.Uint16(DosPages)
	if err != nil {
		return 0, err
	}
	return DecodeImageSize(lastPageBytes, pages)
}

func WriteImageSize(v View, size int) error {
	lastPageBytes, pages, err := EncodeImageSize(size)
	if err != nil {
		return err
	}
	if err := v.PutUint16(DosLastPageBytes, lastPageBytes); err != nil {
		return err
	}
	return v.PutUint16(DosPages, pages)
}
