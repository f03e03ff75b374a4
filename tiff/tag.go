package tiff

import "fmt"

// Tag is one on-disk directory entry: an id, a type, an element count, and
// the raw 4-byte value/offset field exactly as stored in the file. Tags
// have no independent lifetime; they live inside their owning IFD.
type Tag struct {
	id    uint16
	typ   Type
	count uint32
	raw   rawField
	ifd   *IFD
}

// ID returns the tag's 16-bit identifier.
func (t *Tag) ID() uint16 { return t.id }

// Type returns the tag's wire type. A value outside 1..12 is preserved
// as-is; TypeSize returns 0 and Data reports ErrUnknownType for it.
func (t *Tag) Type() Type { return t.typ }

// Count returns the tag's element count.
func (t *Tag) Count() uint32 { return t.count }

// RawOffsetField returns the stored value/offset word uninterpreted, for
// callers that need to compute offsets relative to the tag itself rather
// than to the file -- some vendor MakerNote dialects encode a nested IFD
// pointer this way.
func (t *Tag) RawOffsetField() uint32 {
	return t.raw.asOffset(t.ifd.c.order)
}

// Data reads this tag's typed value array into dest, which must be at
// least TypeSize(t.Type())*t.Count() bytes; dest's length is not checked
// up front, and a shorter dest makes Data panic on a slice bound rather
// than return an error. Values are returned
// byte-swapped to native order, per element, according to the
// element-width policy below, including 8-byte Doubles, which are
// swapped as a full 64-bit word.
func (t *Tag) Data(dest []byte) (int, error) {
	size := TypeSize(t.typ)
	if size == 0 {
		return 0, ErrUnknownType
	}
	n := int(size) * int(t.count)
	if n <= 4 {
		return t.readInline(dest, n, size)
	}
	return t.readOutOfLine(dest, n, size)
}

// readInline copies the data straight out of the 4-byte value/offset
// field: element-size*count <= 4 means the value(s) are encoded directly
// in the entry, left-aligned, in file byte order per element.
func (t *Tag) readInline(dest []byte, n int, size uint32) (int, error) {
	copy(dest[:n], t.raw[:n])
	swapBuffer(dest[:n], int(t.count), size, t.typ, t.ifd.c.order)
	return n, nil
}

// readOutOfLine treats the value/offset field as a file offset (converted
// to native), rebased by the owning IFD's tagBaseOffset for a synthesized
// IFD, and reads n bytes from there.
func (t *Tag) readOutOfLine(dest []byte, n int, size uint32) (int, error) {
	offset := t.raw.asOffset(t.ifd.c.order)
	if offset == 0 {
		return 0, ErrTagMalformed
	}
	offset += t.ifd.tagBaseOffset

	read, err := t.ifd.c.rawRead(offset, dest[:n])
	if err != nil {
		return read, fmt.Errorf("tiff: reading tag %d data: %w", t.id, err)
	}
	if read < n {
		return read, ErrEndOfFile
	}

	swapBuffer(dest[:n], int(t.count), size, t.typ, t.ifd.c.order)
	return n, nil
}

// swapBuffer applies the per-width swap policy:
//   - size 1: no swap (Byte, ASCII, SByte, Undefined).
//   - size 2: swap as 16-bit words.
//   - size 4: swap as 32-bit words.
//   - size 8, Rational/SRational: two 32-bit words per element (a
//     numerator and a denominator), so 2*count 32-bit swaps.
//   - size 8, Double: swap as a 64-bit word.
func swapBuffer(buf []byte, count int, size uint32, typ Type, order ByteOrder) {
	switch size {
	case 1:
		return
	case 2:
		swapWordBuffer(buf, count, order)
	case 4:
		swapDwordBuffer(buf, count, order)
	case 8:
		if typ.isRational() {
			swapDwordBuffer(buf, count*2, order)
		} else {
			swapQwordBuffer(buf, count, order)
		}
	}
}
