// Package transfers moves frames off the board, either as a UVC isochronous
// stream or as raw bulk reads.
package transfers

import (
	"errors"
	"time"

	usb "github.com/kevmo314/go-usb"
)

var (
	ErrNotInitialized       = errors.New("streamer not initialized")
	ErrUnsupportedVideoMode = errors.New("unsupported video mode")
	ErrNoVideoMode          = errors.New("no video mode committed")
	ErrNotStreaming         = errors.New("not streaming")
	ErrStreaming            = errors.New("already streaming")
	ErrInvalidBufferSize    = errors.New("invalid buffer size")
)

// Device is what a UVC streamer needs from a device handle. OpenIsochronous
// is OpenUSBIsochronous bound to the handle.
type Device interface {
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	ClaimInterface(iface uint8) error
	SetInterfaceAltSetting(iface, altSetting uint8) error
	GetActiveConfigDescriptor() (*usb.ConfigDescriptor, error)
	OpenIsochronous(endpoint uint8, numPackets, packetSize int) (IsochronousTransfer, error)
}

const (
	interfaceClassVideo             = 0x0E
	interfaceSubclassVideoControl   = 0x01
	interfaceSubclassVideoStreaming = 0x02

	endpointTransferTypeIsochronous = 0x01
)
