package tiff

import (
	"fmt"

	"github.com/pvachon/libghetto/bytesource"
)

// MaxIFDChain bounds how many IFDs a chain traversal will follow before
// giving up with ErrRangeError, to cap adversarial cycles in malformed or
// hostile input.
const MaxIFDChain = 64

// Container owns a ByteSource, the byte order detected from its header, and
// the root IFD's absolute offset. It mediates all I/O: the IFD reader and
// tag accessor never touch a ByteSource directly except through a
// Container's internal read/seek helpers. A Container is not safe for
// concurrent use -- a seek-then-read pair is stateful -- but independent
// Containers over independent sources may run in parallel.
type Container struct {
	src     bytesource.ByteSource
	order   ByteOrder
	rootIFD uint32
	open    bool
}

const headerLen = 8

// Open detects the TIFF header on src and returns a Container that owns it.
// If header detection fails, src is closed before the error is returned.
func Open(src bytesource.ByteSource) (*Container, error) {
	if src == nil {
		return nil, ErrBadArgument
	}

	header := make([]byte, headerLen)
	if _, err := src.Seek(0, bytesource.SeekStart); err != nil {
		src.Close()
		return nil, fmt.Errorf("tiff: seeking to header: %w", ErrNotTiff)
	}
	n, err := src.Read(header)
	if err != nil || n < headerLen {
		src.Close()
		return nil, ErrNotTiff
	}

	var order ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = BigEndian
	default:
		src.Close()
		return nil, ErrNotTiff
	}

	magic := wordAt(header, 2, order)
	if magic != 42 {
		src.Close()
		return nil, ErrNotTiff
	}

	root := dwordAt(header, 4, order)

	return &Container{src: src, order: order, rootIFD: root, open: true}, nil
}

// Close releases the underlying ByteSource. A second Close is rejected with
// ErrNotOpen rather than left undefined.
func (c *Container) Close() error {
	if !c.open {
		return ErrNotOpen
	}
	c.open = false
	return c.src.Close()
}

// RootIFDOffset returns the absolute file offset of the root IFD detected
// at open time.
func (c *Container) RootIFDOffset() uint32 {
	return c.rootIFD
}

// ByteOrder returns the byte order detected at open time.
func (c *Container) ByteOrder() ByteOrder {
	return c.order
}

// rawRead seeks to offset and reads len(dest) bytes, reporting the actual
// count read. A short read is not itself an error here; callers that
// require an exact count check it themselves and return ErrEndOfFile.
func (c *Container) rawRead(offset uint32, dest []byte) (int, error) {
	if !c.open {
		return 0, ErrNotOpen
	}
	if len(dest) == 0 {
		return 0, ErrRangeError
	}
	if _, err := c.src.Seek(int64(offset), bytesource.SeekStart); err != nil {
		return 0, ErrEndOfFile
	}
	n, err := c.src.Read(dest)
	if err != nil {
		return n, fmt.Errorf("tiff: reading at offset %d: %w", offset, err)
	}
	return n, nil
}
