package descriptors

// StreamingDescriptors holds the uncompressed formats and frames found in the
// class-specific descriptors of a video streaming interface.
type StreamingDescriptors struct {
	Formats []*UncompressedFormatDescriptor
	Frames  []*UncompressedFrameDescriptor
}

// ParseStreaming walks the extra bytes of a video streaming interface. Frame
// descriptors are attributed to the format descriptor that precedes them.
// Descriptors other than uncompressed formats and frames are skipped.
func ParseStreaming(extra []byte) (*StreamingDescriptors, error) {
	sd := &StreamingDescriptors{}
	var current uint8
	for i := 0; i < len(extra); {
		n := int(extra[i])
		if n < 3 || i+n > len(extra) {
			return nil, ErrInvalidDescriptor
		}
		block := extra[i : i+n]
		i += n
		if ClassSpecificDescriptorType(block[1]) != ClassSpecificDescriptorTypeInterface {
			// ignore blocks that are not CS_INTERFACE 0x24
			continue
		}
		switch VideoStreamingInterfaceDescriptorSubtype(block[2]) {
		case VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed:
			f := &UncompressedFormatDescriptor{}
			if err := f.UnmarshalBinary(block); err != nil {
				return nil, err
			}
			current = f.FormatIndex
			sd.Formats = append(sd.Formats, f)
		case VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed:
			fr := &UncompressedFrameDescriptor{}
			if err := fr.UnmarshalBinary(block); err != nil {
				return nil, err
			}
			fr.FormatIndex = current
			sd.Frames = append(sd.Frames, fr)
		}
	}
	return sd, nil
}

// FindFrame returns the frame of the given format matching width and height.
func (sd *StreamingDescriptors) FindFrame(formatIndex uint8, width, height uint16) (*UncompressedFrameDescriptor, bool) {
	for _, fr := range sd.Frames {
		if fr.FormatIndex == formatIndex && fr.Width == width && fr.Height == height {
			return fr, true
		}
	}
	return nil, false
}
