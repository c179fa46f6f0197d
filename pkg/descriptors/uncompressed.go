package descriptors

import (
	"encoding/binary"
	"time"

	"github.com/kevmo314/go-tintin/pkg/formats"
)

// UncompressedFormatDescriptor as defined by the USB Video Class uncompressed
// payload format, section 3.1.1.
type UncompressedFormatDescriptor struct {
	FormatIndex         uint8
	NumFrameDescriptors uint8
	GUIDFormat          formats.CompressionFormat
	BitsPerPixel        uint8
	DefaultFrameIndex   uint8
}

func (ufd *UncompressedFormatDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkHeader(buf, VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed, 27); err != nil {
		return err
	}
	ufd.FormatIndex = buf[3]
	ufd.NumFrameDescriptors = buf[4]
	ufd.GUIDFormat = formats.FromWire(buf[5:21])
	ufd.BitsPerPixel = buf[21]
	ufd.DefaultFrameIndex = buf[22]
	return nil
}

// UncompressedFrameDescriptor as defined by the USB Video Class uncompressed
// payload format, section 3.1.2. A zero-length DiscreteFrameIntervals means the
// device advertises a continuous range.
type UncompressedFrameDescriptor struct {
	FormatIndex             uint8
	FrameIndex              uint8
	Width, Height           uint16
	MaxVideoFrameBufferSize uint32
	DefaultFrameInterval    time.Duration

	MinFrameInterval, MaxFrameInterval, FrameIntervalStep time.Duration
	DiscreteFrameIntervals                                []time.Duration
}

func interval(buf []byte) time.Duration {
	return time.Duration(binary.LittleEndian.Uint32(buf)) * 100 * time.Nanosecond
}

func (ufd *UncompressedFrameDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkHeader(buf, VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed, 26); err != nil {
		return err
	}
	ufd.FrameIndex = buf[3]
	ufd.Width = binary.LittleEndian.Uint16(buf[5:7])
	ufd.Height = binary.LittleEndian.Uint16(buf[7:9])
	ufd.MaxVideoFrameBufferSize = binary.LittleEndian.Uint32(buf[17:21])
	ufd.DefaultFrameInterval = interval(buf[21:25])

	n := int(buf[25])
	if n == 0 {
		if len(buf) < 38 {
			return ErrInvalidDescriptor
		}
		ufd.MinFrameInterval = interval(buf[26:30])
		ufd.MaxFrameInterval = interval(buf[30:34])
		ufd.FrameIntervalStep = interval(buf[34:38])
		return nil
	}
	if len(buf) < 26+4*n {
		return ErrInvalidDescriptor
	}
	ufd.DiscreteFrameIntervals = make([]time.Duration, n)
	for i := range n {
		ufd.DiscreteFrameIntervals[i] = interval(buf[26+4*i:])
	}
	return nil
}

// SupportsInterval reports whether the frame advertises the given interval.
func (ufd *UncompressedFrameDescriptor) SupportsInterval(d time.Duration) bool {
	if len(ufd.DiscreteFrameIntervals) == 0 {
		if d < ufd.MinFrameInterval || d > ufd.MaxFrameInterval {
			return false
		}
		if ufd.FrameIntervalStep == 0 {
			return true
		}
		return (d-ufd.MinFrameInterval)%ufd.FrameIntervalStep == 0
	}
	for _, fi := range ufd.DiscreteFrameIntervals {
		if fi == d {
			return true
		}
	}
	return false
}
