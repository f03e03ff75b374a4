package tiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

type entry struct {
	id    uint16
	typ   Type
	count uint32
	value uint32
}

func buildImageIFD(t *testing.T, entries []entry) *Container {
	t.Helper()
	order := binary.LittleEndian

	var buf bytes.Buffer
	binary.Write(&buf, order, uint16(0x4949))
	binary.Write(&buf, order, uint16(42))
	binary.Write(&buf, order, uint32(8))
	binary.Write(&buf, order, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, order, e.id)
		binary.Write(&buf, order, uint16(e.typ))
		binary.Write(&buf, order, e.count)
		binary.Write(&buf, order, e.value)
	}
	binary.Write(&buf, order, uint32(0))

	return openBuf(t, buf.Bytes())
}

func TestImageAttribsHappyPath(t *testing.T) {
	c := buildImageIFD(t, []entry{
		{tagImageWidth, Long, 1, 640},
		{tagImageLength, Long, 1, 480},
		{tagSamplesPerPixel, Short, 1, 3},
	})
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	w, h, spp, err := ImageAttribs(ifd)
	if err != nil {
		t.Fatalf("ImageAttribs: %v", err)
	}
	if w != 640 || h != 480 || spp != 3 {
		t.Fatalf("got (%d,%d,%d), want (640,480,3)", w, h, spp)
	}
}

func TestImageAttribsDefaultsSamplesPerPixel(t *testing.T) {
	c := buildImageIFD(t, []entry{
		{tagImageWidth, Long, 1, 10},
		{tagImageLength, Long, 1, 20},
	})
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	_, _, spp, err := ImageAttribs(ifd)
	if err != nil {
		t.Fatalf("ImageAttribs: %v", err)
	}
	if spp != 1 {
		t.Fatalf("expected default SamplesPerPixel 1, got %d", spp)
	}
}

func TestImageAttribsNotAnImage(t *testing.T) {
	c := buildImageIFD(t, []entry{
		{0x9999, Short, 1, 1},
	})
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	if _, _, _, err := ImageAttribs(ifd); !errors.Is(err, ErrIfdNotImage) {
		t.Fatalf("expected ErrIfdNotImage, got %v", err)
	}
}

// TestSampleInfoDoesNotCrossWrite verifies that a present SampleFormat tag
// never overwrites BitsPerSample -- each tag must populate only its own
// declared output.
func TestSampleInfoDoesNotCrossWrite(t *testing.T) {
	c := buildImageIFD(t, []entry{
		{tagImageWidth, Long, 1, 10},
		{tagImageLength, Long, 1, 20},
		{tagBitsPerSample, Short, 1, 16},
		{tagSampleFormat, Short, 1, uint32(SampleFormatFloat)},
	})
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	bits, format, err := SampleInfo(ifd)
	if err != nil {
		t.Fatalf("SampleInfo: %v", err)
	}
	if bits != 16 {
		t.Fatalf("expected BitsPerSample 16 unclobbered, got %d", bits)
	}
	if format != SampleFormatFloat {
		t.Fatalf("expected SampleFormatFloat, got %v", format)
	}
}

// TestSampleInfoMultiSampleBitsPerSample covers BitsPerSample stored with
// count == SamplesPerPixel (an RGB image records 3 values, one per
// channel), which pushes the tag out of line and previously panicked with
// a slice-bounds-out-of-range error in readUint32Tag.
func TestSampleInfoMultiSampleBitsPerSample(t *testing.T) {
	order := binary.LittleEndian
	const dataOffset = 0x40

	buf := make([]byte, dataOffset+6)
	w := bytes.NewBuffer(nil)
	binary.Write(w, order, uint16(0x4949))
	binary.Write(w, order, uint16(42))
	binary.Write(w, order, uint32(8))
	binary.Write(w, order, uint16(3)) // ImageWidth, ImageLength, BitsPerSample

	binary.Write(w, order, tagImageWidth)
	binary.Write(w, order, uint16(Long))
	binary.Write(w, order, uint32(1))
	binary.Write(w, order, uint32(10))

	binary.Write(w, order, tagImageLength)
	binary.Write(w, order, uint16(Long))
	binary.Write(w, order, uint32(1))
	binary.Write(w, order, uint32(20))

	binary.Write(w, order, tagBitsPerSample)
	binary.Write(w, order, uint16(Short))
	binary.Write(w, order, uint32(3)) // SamplesPerPixel == 3, out of line
	binary.Write(w, order, uint32(dataOffset))

	binary.Write(w, order, uint32(0)) // next IFD
	copy(buf, w.Bytes())

	samples := bytes.NewBuffer(nil)
	binary.Write(samples, order, uint16(8))
	binary.Write(samples, order, uint16(8))
	binary.Write(samples, order, uint16(8))
	copy(buf[dataOffset:], samples.Bytes())

	c := openBuf(t, buf)
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	bits, format, err := SampleInfo(ifd)
	if err != nil {
		t.Fatalf("SampleInfo: %v", err)
	}
	if bits != 8 {
		t.Fatalf("expected the first BitsPerSample element (8), got %d", bits)
	}
	if format != SampleFormatUInt {
		t.Fatalf("expected default SampleFormatUInt, got %v", format)
	}
}

func TestSampleInfoDefaultsFormat(t *testing.T) {
	c := buildImageIFD(t, []entry{
		{tagImageWidth, Long, 1, 10},
		{tagImageLength, Long, 1, 20},
		{tagBitsPerSample, Short, 1, 8},
	})
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	bits, format, err := SampleInfo(ifd)
	if err != nil {
		t.Fatalf("SampleInfo: %v", err)
	}
	if bits != 8 {
		t.Fatalf("expected 8, got %d", bits)
	}
	if format != SampleFormatUInt {
		t.Fatalf("expected default SampleFormatUInt, got %v", format)
	}
}

func TestImageStructureDefaultsCompression(t *testing.T) {
	c := buildImageIFD(t, []entry{
		{tagImageWidth, Long, 1, 10},
		{tagImageLength, Long, 1, 20},
	})
	defer c.Close()

	ifd, err := c.ReadIFD(c.RootIFDOffset())
	if err != nil {
		t.Fatalf("ReadIFD: %v", err)
	}

	tileCount, tileW, tileH, compression, err := ImageStructure(ifd)
	if err != nil {
		t.Fatalf("ImageStructure: %v", err)
	}
	if tileCount != 0 || tileW != 0 || tileH != 0 {
		t.Fatalf("expected zero tile fields, got (%d,%d,%d)", tileCount, tileW, tileH)
	}
	if compression != 1 {
		t.Fatalf("expected default Compression 1, got %d", compression)
	}
}
