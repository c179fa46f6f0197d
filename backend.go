package tintin

import (
	"fmt"

	"github.com/kevmo314/go-tintin/pkg/regprog"
	"github.com/kevmo314/go-tintin/pkg/transfers"
	"github.com/kevmo314/go-tintin/pkg/usbio"
)

// Backend is the register programmer and streamer pair of one board variant.
// The set of implementations is closed: *VideoClassBackend or *BulkBackend.
type Backend interface {
	Programmer() Programmer
	Kind() BackendKind
	isBackend()
}

// Programmer is a register programmer that reports whether it came up.
type Programmer interface {
	ReadRegister(address uint32) (uint32, error)
	WriteRegister(address, value uint32) error
	IsInitialized() bool
}

type BackendKind int

const (
	BackendVideoClass BackendKind = iota
	BackendBulk
)

func (k BackendKind) String() string {
	switch k {
	case BackendVideoClass:
		return "uvc"
	case BackendBulk:
		return "bulk"
	}
	return "unknown"
}

// VideoClassBackend programs registers through the UVC extension unit and
// streams over the isochronous video endpoint.
type VideoClassBackend struct {
	XU       *regprog.XUProgrammer
	Streamer *transfers.UVCStreamer
}

func (b *VideoClassBackend) Programmer() Programmer { return b.XU }
func (b *VideoClassBackend) Kind() BackendKind      { return BackendVideoClass }
func (*VideoClassBackend) isBackend()               {}

// BulkBackend programs registers with vendor requests and streams raw frames
// from a bulk endpoint, both through one USBIO handle.
type BulkBackend struct {
	IO       *usbio.USBIO
	USB      *regprog.USBProgrammer
	Streamer *transfers.BulkStreamer
}

func (b *BulkBackend) Programmer() Programmer { return b.USB }
func (b *BulkBackend) Kind() BackendKind      { return BackendBulk }
func (*BulkBackend) isBackend()               {}

// selectBackend builds the backend for the product id the device reports.
// Only the UVC product id picks the video class pair; any other board is the
// bulk variant. Both halves of the pair must come up; there is no fallback to
// the other variant.
func selectBackend(dev Device, cfg *Config) (Backend, error) {
	switch dev.Descriptor().ProductID {
	case cfg.UVCProductID:
		b := &VideoClassBackend{
			XU: regprog.NewXUProgrammer(regprog.TintinRegisterSizes, dev,
				regprog.WithXUUnit(cfg.XUUnitID, cfg.ControlInterface),
				regprog.WithXUTimeout(cfg.ControlTimeout)),
			Streamer: transfers.NewUVCStreamer(dev, transfers.WithControlTimeout(cfg.ControlTimeout)),
		}
		if !b.XU.IsInitialized() {
			return nil, fmt.Errorf("xu programmer: %w", ErrBackendNotInitialized)
		}
		if !b.Streamer.IsInitialized() {
			return nil, fmt.Errorf("uvc streamer: %w", ErrBackendNotInitialized)
		}
		return b, nil
	default:
		io := usbio.New(dev,
			usbio.WithInterface(cfg.BulkInterface),
			usbio.WithTimeouts(cfg.ControlTimeout, cfg.BulkTimeout))
		b := &BulkBackend{
			IO:       io,
			USB:      regprog.NewUSBProgrammer(regprog.TintinRegisterSizes, regprog.TintinEncodings, io),
			Streamer: transfers.NewBulkStreamer(io, cfg.BulkEndpoint),
		}
		if !b.USB.IsInitialized() {
			return nil, fmt.Errorf("usb programmer: %w", ErrBackendNotInitialized)
		}
		if !b.Streamer.IsInitialized() {
			return nil, fmt.Errorf("bulk streamer: %w", ErrBackendNotInitialized)
		}
		return b, nil
	}
}
