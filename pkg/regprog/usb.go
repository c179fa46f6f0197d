package regprog

import (
	"encoding/binary"
	"fmt"

	"github.com/kevmo314/go-tintin/pkg/usbio"
)

// Encoding describes how a register group is addressed by the bulk variant
// firmware: the vendor request codes for write and read, and the bit shift that
// places the sub-address in wValue.
type Encoding struct {
	WriteRequest uint8
	ReadRequest  uint8
	Shift        uint8
}

type Encodings map[uint8]Encoding

// TintinEncodings is the vendor request encoding of the TintinCDK bulk variant.
var TintinEncodings = Encodings{
	0x58: {0x08, 0x09, 0},
	0x5C: {0x08, 0x09, 0},
	0x4B: {0x0A, 0x0B, 0},
	0x4E: {0x0A, 0x0B, 0},
	0x2D: {0x04, 0x03, 8},
	0x52: {0x04, 0x03, 8},
	0x54: {0x04, 0x03, 8},
}

// USBProgrammer accesses registers with vendor control requests. Values are
// carried little endian in a payload as wide as the register.
type USBProgrammer struct {
	sizes       RegisterSizes
	encodings   Encodings
	io          *usbio.USBIO
	initialized bool
}

// NewUSBProgrammer requires an encoding for every register group in sizes.
func NewUSBProgrammer(sizes RegisterSizes, encodings Encodings, io *usbio.USBIO) *USBProgrammer {
	p := &USBProgrammer{sizes: sizes, encodings: encodings, io: io}
	if io == nil || !io.IsInitialized() || len(sizes) == 0 {
		return p
	}
	for g := range sizes {
		if _, ok := encodings[g]; !ok {
			return p
		}
	}
	p.initialized = true
	return p
}

func (p *USBProgrammer) IsInitialized() bool {
	return p.initialized
}

func (p *USBProgrammer) encode(address uint32) (uint8, Encoding, uint16, uint16, error) {
	size, err := p.sizes.size(address)
	if err != nil {
		return 0, Encoding{}, 0, 0, err
	}
	enc, ok := p.encodings[group(address)]
	if !ok {
		return 0, Encoding{}, 0, 0, fmt.Errorf("0x%04x: no encoding: %w", address, ErrUnknownRegister)
	}
	value := uint16(subAddress(address)) << enc.Shift
	index := uint16(group(address))
	return size, enc, value, index, nil
}

func (p *USBProgrammer) WriteRegister(address, value uint32) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	size, enc, wValue, wIndex, err := p.encode(address)
	if err != nil {
		return err
	}
	var payload [4]byte
	binary.LittleEndian.PutUint32(payload[:], value)
	if err := p.io.ControlOut(enc.WriteRequest, wValue, wIndex, payload[:size]); err != nil {
		return fmt.Errorf("usb write 0x%04x: %w", address, err)
	}
	return nil
}

func (p *USBProgrammer) ReadRegister(address uint32) (uint32, error) {
	if !p.initialized {
		return 0, ErrNotInitialized
	}
	size, enc, wValue, wIndex, err := p.encode(address)
	if err != nil {
		return 0, err
	}
	var payload [4]byte
	n, err := p.io.ControlIn(enc.ReadRequest, wValue, wIndex, payload[:size])
	if err != nil {
		return 0, fmt.Errorf("usb read 0x%04x: %w", address, err)
	}
	if n < int(size) {
		return 0, fmt.Errorf("usb read 0x%04x: got %d bytes: %w", address, n, ErrShortTransfer)
	}
	return binary.LittleEndian.Uint32(payload[:]), nil
}
