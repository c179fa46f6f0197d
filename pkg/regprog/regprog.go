// Package regprog programs the registers of the TintinCDK board, either through
// a UVC extension unit or through vendor control requests.
package regprog

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownRegister = errors.New("unknown register group")
	ErrNotInitialized  = errors.New("register programmer not initialized")
	ErrShortTransfer   = errors.New("short control transfer")
)

const DefaultTimeout = time.Second

// ControlTransferer issues USB control transfers. *usb.DeviceHandle satisfies it.
type ControlTransferer interface {
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
}

// RegisterSizes maps a register group (the high byte of an address) to the
// width of its registers in bytes.
type RegisterSizes map[uint8]uint8

// TintinRegisterSizes is the register layout of the TintinCDK board.
var TintinRegisterSizes = RegisterSizes{
	0x2D: 1,
	0x52: 1,
	0x54: 1,
	0x4B: 2,
	0x4E: 2,
	0x58: 3,
	0x5C: 3,
}

func (s RegisterSizes) size(address uint32) (uint8, error) {
	n, ok := s[group(address)]
	if !ok {
		return 0, fmt.Errorf("0x%04x: %w", address, ErrUnknownRegister)
	}
	return n, nil
}

func group(address uint32) uint8 {
	return uint8(address >> 8)
}

func subAddress(address uint32) uint8 {
	return uint8(address)
}
