// Package usbio is the shared I/O handle of the bulk-transfer board variant:
// vendor control requests for register access and bulk reads for frame data
// go through the same claimed interface.
package usbio

import (
	"errors"
	"fmt"
	"time"

	"github.com/kevmo314/go-tintin/pkg/requests"
)

var ErrNotInitialized = errors.New("usb io not initialized")

const (
	DefaultControlTimeout = time.Second
	DefaultBulkTimeout    = 2 * time.Second
)

// Device is the part of *usb.DeviceHandle used by USBIO.
type Device interface {
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
	ClaimInterface(iface uint8) error
}

type USBIO struct {
	dev            Device
	iface          uint8
	controlTimeout time.Duration
	bulkTimeout    time.Duration
	initialized    bool
}

type Option func(*USBIO)

func WithInterface(iface uint8) Option {
	return func(u *USBIO) { u.iface = iface }
}

func WithTimeouts(control, bulk time.Duration) Option {
	return func(u *USBIO) {
		u.controlTimeout = control
		u.bulkTimeout = bulk
	}
}

// New claims the vendor interface. Failure to claim leaves the handle
// uninitialized; callers check IsInitialized.
func New(dev Device, opts ...Option) *USBIO {
	u := &USBIO{
		dev:            dev,
		controlTimeout: DefaultControlTimeout,
		bulkTimeout:    DefaultBulkTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	if dev == nil {
		return u
	}
	u.initialized = dev.ClaimInterface(u.iface) == nil
	return u
}

func (u *USBIO) IsInitialized() bool {
	return u.initialized
}

func (u *USBIO) ControlOut(request uint8, value, index uint16, data []byte) error {
	if !u.initialized {
		return ErrNotInitialized
	}
	if _, err := u.dev.ControlTransfer(uint8(requests.RequestTypeVendorDeviceSetRequest), request, value, index, data, u.controlTimeout); err != nil {
		return fmt.Errorf("control out 0x%02x: %w", request, err)
	}
	return nil
}

func (u *USBIO) ControlIn(request uint8, value, index uint16, data []byte) (int, error) {
	if !u.initialized {
		return 0, ErrNotInitialized
	}
	n, err := u.dev.ControlTransfer(uint8(requests.RequestTypeVendorDeviceGetRequest), request, value, index, data, u.controlTimeout)
	if err != nil {
		return 0, fmt.Errorf("control in 0x%02x: %w", request, err)
	}
	return n, nil
}

func (u *USBIO) BulkRead(endpoint uint8, buf []byte) (int, error) {
	if !u.initialized {
		return 0, ErrNotInitialized
	}
	return u.dev.BulkTransfer(endpoint, buf, u.bulkTimeout)
}
