package tiff

import "encoding/binary"

// ByteOrder is the file's declared endianness, detected once from the
// header and constant for the Container's lifetime.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

func (o ByteOrder) codec() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// wordAt reads a 16-bit value at byte offset off in buf, corrected to
// native order from the file's declared order.
func wordAt(buf []byte, off int, order ByteOrder) uint16 {
	return order.codec().Uint16(buf[off : off+2])
}

// dwordAt reads a 32-bit value at byte offset off in buf, corrected to
// native order from the file's declared order.
func dwordAt(buf []byte, off int, order ByteOrder) uint32 {
	return order.codec().Uint32(buf[off : off+4])
}

// rawField is the 4 on-disk bytes of a tag's value/offset word, copied
// verbatim with no endian correction applied. Those bytes are stored in the
// file's byte order, but their meaning (inline data, left-aligned, vs. a
// file offset) depends on the tag's type and count, not on endianness, so
// parsing defers interpretation until the tag is read.
type rawField [4]byte

// rawFieldAt copies the 4 raw bytes at off in buf without byte-swapping.
func rawFieldAt(buf []byte, off int) rawField {
	var r rawField
	copy(r[:], buf[off:off+4])
	return r
}

// asOffset interprets the raw field as a 32-bit file-order offset,
// converting it to a native uint32.
func (r rawField) asOffset(order ByteOrder) uint32 {
	return order.codec().Uint32(r[:])
}

// native is the host's own byte order, used for every value returned to
// callers once it has been corrected from the file's declared order.
var native = binary.NativeEndian

// swapWordBuffer corrects buf in place, count 16-bit elements, from the
// file's declared order to native order.
func swapWordBuffer(buf []byte, count int, order ByteOrder) {
	codec := order.codec()
	for i := 0; i < count; i++ {
		off := i * 2
		native.PutUint16(buf[off:off+2], codec.Uint16(buf[off:off+2]))
	}
}

// swapDwordBuffer corrects buf in place, count 32-bit elements, from the
// file's declared order to native order.
func swapDwordBuffer(buf []byte, count int, order ByteOrder) {
	codec := order.codec()
	for i := 0; i < count; i++ {
		off := i * 4
		native.PutUint32(buf[off:off+4], codec.Uint32(buf[off:off+4]))
	}
}

// swapQwordBuffer corrects buf in place, count 64-bit elements, from the
// file's declared order to native order. Used for Double values, which
// must be swapped as a full 64-bit word like any other multi-byte type.
func swapQwordBuffer(buf []byte, count int, order ByteOrder) {
	codec := order.codec()
	for i := 0; i < count; i++ {
		off := i * 8
		native.PutUint64(buf[off:off+8], codec.Uint64(buf[off:off+8]))
	}
}
