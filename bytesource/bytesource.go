// Package bytesource provides the abstract random-access byte stream the
// TIFF container reads through. The core never talks to an *os.File or a
// network socket directly; it only ever sees a ByteSource, so the same
// container walker works over a local file, an in-memory buffer, or an
// HTTP range-backed blob.
package bytesource

import "errors"

// ErrFileNotFound is returned by an Open-style constructor when the
// underlying storage cannot be reached.
var ErrFileNotFound = errors.New("bytesource: file not found")

// Whence selects the reference point for Seek, mirroring io.Seek* without
// pulling callers into an io.Seeker contract whose short-read semantics
// don't match this package's (a ByteSource reports short reads as a
// plain count, not as an error, so a caller at EOF can tell "0 more bytes"
// from "something broke").
type Whence int

const (
	SeekStart Whence = iota
	SeekCurrent
	SeekEnd
)

// ByteSource is the capability set a container mediates all I/O through:
// open (via a constructor, not part of the interface), close, bounded read,
// and absolute-or-relative seek. Implementations do no buffering of their
// own beyond what's needed to satisfy ReadAt/Read cheaply; the core does its
// own coarse-grained reads.
type ByteSource interface {
	// Read fills dest from the current position and advances it. A short
	// read at EOF returns the actual byte count with a nil error; callers
	// must compare the returned count against len(dest) themselves.
	Read(dest []byte) (n int, err error)

	// ReadAt fills dest starting at the given absolute offset, without
	// disturbing the source's current position. Same short-read contract
	// as Read.
	ReadAt(dest []byte, off int64) (n int, err error)

	// Seek repositions the source. Set is absolute-in-bytes. Seeking past
	// the end of a source is not itself an error here -- it only becomes
	// one when a subsequent Read returns fewer bytes than asked for.
	Seek(offset int64, whence Whence) (int64, error)

	// Close releases the underlying handle. A ByteSource must tolerate a
	// second Close without panicking, though it may report an error.
	Close() error
}
