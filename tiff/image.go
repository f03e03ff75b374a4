package tiff

// Tag ids consumed by the image helpers below. This is a small catalogue,
// not a general tag dictionary -- the reader has no opinion about what any
// other tag id means.
const (
	tagImageWidth      uint16 = 256
	tagImageLength     uint16 = 257
	tagBitsPerSample   uint16 = 258
	tagCompression     uint16 = 259
	tagSamplesPerPixel uint16 = 277
	tagSampleFormat    uint16 = 339
)

// SampleFormat is the interpretation of a sample's bits (tag 339).
type SampleFormat uint32

const (
	SampleFormatUInt      SampleFormat = 1
	SampleFormatInt       SampleFormat = 2
	SampleFormatFloat     SampleFormat = 3
	SampleFormatUndefined SampleFormat = 4
)

// isImageIFD succeeds iff both ImageWidth and ImageLength resolve.
func isImageIFD(ifd *IFD) bool {
	_, err := ifd.Lookup(tagImageWidth)
	if err != nil {
		return false
	}
	_, err = ifd.Lookup(tagImageLength)
	return err == nil
}

// readUint32Tag fetches a single LONG- or SHORT-typed scalar tag, widening
// a SHORT to uint32 the way TIFF readers conventionally do for the
// ImageWidth/ImageLength/SamplesPerPixel family, which may legally be
// stored as either type.
func readUint32Tag(ifd *IFD, id uint16) (uint32, error) {
	tag, err := ifd.Lookup(id)
	if err != nil {
		return 0, err
	}
	size := TypeSize(tag.Type())
	if size == 0 {
		return 0, ErrUnknownType
	}

	buf := make([]byte, size*tag.Count())
	if _, err := tag.Data(buf); err != nil {
		return 0, err
	}

	switch tag.Type() {
	case Short:
		return uint32(native.Uint16(buf[:2])), nil
	case Long:
		return native.Uint32(buf[:4]), nil
	default:
		return 0, ErrUnknownType
	}
}

// ImageAttribs returns width, height, and samples-per-pixel for an IFD that
// describes an image, from tags 256, 257, 277. SamplesPerPixel defaults to
// 1 when the tag is absent -- the common case for a single-channel image
// that never bothered to record it explicitly.
func ImageAttribs(ifd *IFD) (width, height, samplesPerPixel uint32, err error) {
	if !isImageIFD(ifd) {
		return 0, 0, 0, ErrIfdNotImage
	}

	width, err = readUint32Tag(ifd, tagImageWidth)
	if err != nil {
		return 0, 0, 0, err
	}
	height, err = readUint32Tag(ifd, tagImageLength)
	if err != nil {
		return 0, 0, 0, err
	}

	samplesPerPixel, err = readUint32Tag(ifd, tagSamplesPerPixel)
	if err == ErrTagNotFound {
		samplesPerPixel = 1
		err = nil
	}
	if err != nil {
		return 0, 0, 0, err
	}
	return width, height, samplesPerPixel, nil
}

// SampleInfo returns bits-per-sample and sample-format for an IFD, from
// tags 258 and 339. Missing 339 defaults to SampleFormatUInt. The two tags
// are read into their own distinct outputs; a present SampleFormat never
// overwrites BitsPerSample.
func SampleInfo(ifd *IFD) (bitsPerSample uint32, sampleFormat SampleFormat, err error) {
	if !isImageIFD(ifd) {
		return 0, 0, ErrIfdNotImage
	}

	bitsPerSample, err = readUint32Tag(ifd, tagBitsPerSample)
	if err != nil {
		return 0, 0, err
	}

	format, err := readUint32Tag(ifd, tagSampleFormat)
	if err == ErrTagNotFound {
		return bitsPerSample, SampleFormatUInt, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return bitsPerSample, SampleFormat(format), nil
}

// ImageStructure returns tile/compression structure for an IFD, from tag
// 259. This reader never computes strip or tile layout -- tile fields are
// always zero; strip storage is treated as a degenerate tile case that is
// not enumerated here.
func ImageStructure(ifd *IFD) (tileCount, tileWidth, tileHeight int, compression uint32, err error) {
	if !isImageIFD(ifd) {
		return 0, 0, 0, 0, ErrIfdNotImage
	}

	compression, err = readUint32Tag(ifd, tagCompression)
	if err == ErrTagNotFound {
		return 0, 0, 0, 1, nil // Compression absent means uncompressed (1) per TIFF 6.0.
	}
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return 0, 0, 0, compression, nil
}
