package formats

import "github.com/google/uuid"

// CompressionFormat is the GUID of an uncompressed UVC payload format.
type CompressionFormat uuid.UUID

var (
	CompressionFormatYUY2 = CompressionFormat(uuid.MustParse("32595559-0000-0010-8000-00AA00389B71"))
	CompressionFormatNV12 = CompressionFormat(uuid.MustParse("3231564E-0000-0010-8000-00AA00389B71"))
	CompressionFormatM420 = CompressionFormat(uuid.MustParse("3032344D-0000-0010-8000-00AA00389B71"))
	CompressionFormatI420 = CompressionFormat(uuid.MustParse("30323449-0000-0010-8000-00AA00389B71"))
)

// FromWire decodes a GUID as laid out in a USB descriptor, UVC 1.5 section
// 2.9: the first three fields are little endian.
func FromWire(b []byte) CompressionFormat {
	var f CompressionFormat
	f[0], f[1], f[2], f[3] = b[3], b[2], b[1], b[0]
	f[4], f[5] = b[5], b[4]
	f[6], f[7] = b[7], b[6]
	copy(f[8:], b[8:16])
	return f
}

// Wire is the inverse of FromWire.
func (f CompressionFormat) Wire() []byte {
	b := make([]byte, 16)
	b[0], b[1], b[2], b[3] = f[3], f[2], f[1], f[0]
	b[4], b[5] = f[5], f[4]
	b[6], b[7] = f[7], f[6]
	copy(b[8:], f[8:])
	return b
}

func (f CompressionFormat) String() string {
	switch f {
	case CompressionFormatYUY2:
		return "YUY2"
	case CompressionFormatNV12:
		return "NV12"
	case CompressionFormatM420:
		return "M420"
	case CompressionFormatI420:
		return "I420"
	}
	return uuid.UUID(f).String()
}
