// Package descriptors implements the parts of the UVC 1.5 class-specific
// descriptors and controls needed to negotiate an uncompressed video stream.
package descriptors

import "errors"

var ErrInvalidDescriptor = errors.New("invalid descriptor")

type ClassSpecificDescriptorType byte

const (
	ClassSpecificDescriptorTypeInterface ClassSpecificDescriptorType = 0x24
	ClassSpecificDescriptorTypeEndpoint  ClassSpecificDescriptorType = 0x25
)

type VideoStreamingInterfaceDescriptorSubtype byte

const (
	VideoStreamingInterfaceDescriptorSubtypeInputHeader        VideoStreamingInterfaceDescriptorSubtype = 0x01
	VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed VideoStreamingInterfaceDescriptorSubtype = 0x04
	VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed  VideoStreamingInterfaceDescriptorSubtype = 0x05
	VideoStreamingInterfaceDescriptorSubtypeColorFormat        VideoStreamingInterfaceDescriptorSubtype = 0x0D
)

// checkHeader validates the length, type and subtype prefix common to all
// class-specific video streaming descriptors.
func checkHeader(buf []byte, subtype VideoStreamingInterfaceDescriptorSubtype, minLength int) error {
	if len(buf) < 3 || len(buf) != int(buf[0]) || len(buf) < minLength {
		return ErrInvalidDescriptor
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoStreamingInterfaceDescriptorSubtype(buf[2]) != subtype {
		return ErrInvalidDescriptor
	}
	return nil
}
