// Package blob provides the byte sources and sinks the build reads from and
// writes to.
package blob

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// Source is a read-only view of a file. Bytes must not be modified and must
// not be used after Close.
type Source struct {
	Path string

	data mmap.MMap
}

func Open(path string) (*Source, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() {
		_ = handle.Close()
	}()

	info, err := handle.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}

	source := &Source{Path: path}
	if info.Size() == 0 {
		// Empty files cannot be mapped.
		return source, nil
	}

	source.data, err = mmap.Map(handle, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}

	return source, nil
}

func (s *Source) Bytes() []byte {
	return s.data
}

func (s *Source) Close() error {
	if s.data == nil {
		return nil
	}

	err := s.data.Unmap()
	s.data = nil
	return errors.Wrapf(err, "unmap %s", s.Path)
}
