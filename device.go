package tintin

import (
	"errors"
	"fmt"
	"time"

	usb "github.com/kevmo314/go-usb"

	"github.com/kevmo314/go-tintin/pkg/transfers"
)

var ErrNoDevice = errors.New("no TintinCDK board attached")

// Device is the USB handle a Camera drives. *Handle satisfies it.
type Device interface {
	transfers.Device
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
	Descriptor() usb.DeviceDescriptor
	Close() error
}

// Handle is an open board.
type Handle struct {
	*usb.DeviceHandle
}

func (h *Handle) OpenIsochronous(endpoint uint8, numPackets, packetSize int) (transfers.IsochronousTransfer, error) {
	return transfers.OpenUSBIsochronous(h.DeviceHandle, endpoint, numPackets, packetSize)
}

// Variant reports which board variant a product id belongs to.
func (c *Config) Variant(productID uint16) (BackendKind, bool) {
	switch productID {
	case c.UVCProductID:
		return BackendVideoClass, true
	case c.BulkProductID:
		return BackendBulk, true
	}
	return 0, false
}

// FindDevices lists the attached boards matching cfg.
func FindDevices(cfg *Config) ([]*usb.Device, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	var found []*usb.Device
	for _, dev := range devices {
		if dev.Descriptor.VendorID != cfg.VendorID {
			continue
		}
		if _, ok := cfg.Variant(dev.Descriptor.ProductID); ok {
			found = append(found, dev)
		}
	}
	return found, nil
}

// OpenDevice opens the first attached board of either variant.
func OpenDevice(cfg *Config) (*Handle, error) {
	devices, err := FindDevices(cfg)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	handle, err := devices[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devices[0].Path, err)
	}
	return &Handle{DeviceHandle: handle}, nil
}
