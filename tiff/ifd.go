package tiff

import "fmt"

const entryLen = 12

// IFD is an ordered sequence of tags in file order, a back reference to the
// Container that owns them, the next-IFD offset in the chain (0 terminates
// it), and -- for synthesized IFDs -- the rebase offset added to every
// out-of-line tag read.
type IFD struct {
	c             *Container
	tags          []Tag
	nextIFD       uint32
	tagBaseOffset uint32
	synthesized   bool
}

// ReadIFD reads the IFD at the given absolute file offset.
func (c *Container) ReadIFD(offset uint32) (*IFD, error) {
	if !c.open {
		return nil, ErrNotOpen
	}

	var countBuf [2]byte
	n, err := c.rawRead(offset, countBuf[:])
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, ErrEndOfFile
	}
	entryCount := wordAt(countBuf[:], 0, c.order)
	if entryCount == 0 {
		return nil, ErrRangeError
	}

	// count*12+4 bytes: the entries plus the trailing next-IFD offset.
	// entryCount is a uint16, so the multiplication cannot overflow a
	// uint32 or an int on any platform this runs on, but it's computed in
	// a wide type anyway rather than trusted blindly.
	total := uint64(entryCount)*entryLen + 4
	buf := getScratch(int(total))
	defer putScratch(buf)

	read, err := c.rawRead(offset+2, buf.B)
	if err != nil {
		return nil, err
	}
	if uint64(read) < total {
		return nil, ErrEndOfFile
	}

	tags, err := parseEntries(buf.B, int(entryCount), c.order)
	if err != nil {
		return nil, err
	}

	next := dwordAt(buf.B, int(entryCount)*entryLen, c.order)

	ifd := &IFD{c: c, tags: tags, nextIFD: next}
	for i := range ifd.tags {
		ifd.tags[i].ifd = ifd
	}
	return ifd, nil
}

// MakeIFD synthesises an IFD from an in-memory buffer rather than a file
// offset, the MakerNote case: a vendor maker-note blob carries its own
// little directory whose internal tag offsets are relative to the start of
// the blob, not to the file. tagBaseOffset is added to every out-of-line
// tag's offset before it is read from c's ByteSource.
func MakeIFD(c *Container, buf []byte, tagBaseOffset uint32) (*IFD, error) {
	if c == nil || buf == nil {
		return nil, ErrBadArgument
	}
	if len(buf) < 2+entryLen+4 {
		return nil, ErrRangeError
	}

	entryCount := wordAt(buf, 0, c.order)
	if entryCount == 0 {
		return nil, ErrRangeError
	}
	if 2+int(entryCount)*entryLen+4 > len(buf) {
		return nil, ErrRangeError
	}

	tags, err := parseEntries(buf[2:], int(entryCount), c.order)
	if err != nil {
		return nil, err
	}

	next := dwordAt(buf, 2+int(entryCount)*entryLen, c.order)

	ifd := &IFD{
		c:             c,
		tags:          tags,
		nextIFD:       next,
		tagBaseOffset: tagBaseOffset,
		synthesized:   true,
	}
	for i := range ifd.tags {
		ifd.tags[i].ifd = ifd
	}
	return ifd, nil
}

// parseEntries decodes count 12-byte directory entries starting at buf[0].
func parseEntries(buf []byte, count int, order ByteOrder) ([]Tag, error) {
	tags := make([]Tag, count)
	for i := 0; i < count; i++ {
		off := i * entryLen
		id := wordAt(buf, off+0, order)
		typ := wordAt(buf, off+2, order)
		cnt := dwordAt(buf, off+4, order)
		if cnt == 0 {
			return nil, fmt.Errorf("tiff: tag %d has zero count: %w", id, ErrRangeError)
		}
		tags[i] = Tag{
			id:    id,
			typ:   Type(typ),
			count: cnt,
			raw:   rawFieldAt(buf, off+8),
		}
	}
	return tags, nil
}

// NextIFDOffset returns the offset of the next IFD in the chain, or 0 if
// this is the last one. For a synthesized IFD this value is read from the
// buffer as-is but is not meaningful as a file offset on its own -- see
// Container.Walk, which never dereferences it.
func (ifd *IFD) NextIFDOffset() uint32 {
	return ifd.nextIFD
}

// IsSynthesized reports whether this IFD was built by MakeIFD rather than
// read from a file offset.
func (ifd *IFD) IsSynthesized() bool {
	return ifd.synthesized
}

// TagCount returns the number of tag entries in this IFD.
func (ifd *IFD) TagCount() int {
	return len(ifd.tags)
}

// Lookup returns the first tag with the given id, by linear scan. TIFF 6.0
// specifies ascending tag-id order within an IFD but this reader does not
// assume it; out-of-order entries are tolerated.
func (ifd *IFD) Lookup(id uint16) (*Tag, error) {
	for i := range ifd.tags {
		if ifd.tags[i].id == id {
			return &ifd.tags[i], nil
		}
	}
	return nil, ErrTagNotFound
}

// TagAt returns the tag at index i, bounds-checked against the entry count.
func (ifd *IFD) TagAt(i int) (*Tag, error) {
	if i < 0 || i >= len(ifd.tags) {
		return nil, ErrRangeError
	}
	return &ifd.tags[i], nil
}

// Walk follows the next-IFD chain from root, calling visit for each IFD
// read along the way, and stops after MaxIFDChain steps with ErrRangeError
// rather than risk an adversarial cycle. visit receives the absolute
// offset the IFD was read from.
func (c *Container) Walk(root uint32, visit func(offset uint32, ifd *IFD) error) error {
	offset := root
	for step := 0; offset != 0; step++ {
		if step >= MaxIFDChain {
			return ErrRangeError
		}
		ifd, err := c.ReadIFD(offset)
		if err != nil {
			return err
		}
		if err := visit(offset, ifd); err != nil {
			return err
		}
		offset = ifd.nextIFD
	}
	return nil
}
