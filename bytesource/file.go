package bytesource

import (
	"io"
	"os"
)

// fileSource is the default ByteSource, backed by the platform's file API.
type fileSource struct {
	f *os.File
}

// OpenFile opens path for reading and returns it as a ByteSource. It is the
// default local-file backing; callers pass its result to tiff.Open, which
// does not open a source of its own (a nil source is rejected).
func OpenFile(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrFileNotFound
	}
	return &fileSource{f: f}, nil
}

func (s *fileSource) Read(dest []byte) (int, error) {
	n, err := s.f.Read(dest)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s *fileSource) ReadAt(dest []byte, off int64) (int, error) {
	n, err := s.f.ReadAt(dest, off)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s *fileSource) Seek(offset int64, whence Whence) (int64, error) {
	return s.f.Seek(offset, whenceToIO(whence))
}

func (s *fileSource) Close() error {
	return s.f.Close()
}

func whenceToIO(w Whence) int {
	switch w {
	case SeekCurrent:
		return io.SeekCurrent
	case SeekEnd:
		return io.SeekEnd
	default:
		return io.SeekStart
	}
}
