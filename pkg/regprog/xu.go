package regprog

import (
	"fmt"
	"time"

	"github.com/kevmo314/go-tintin/pkg/requests"
)

// Extension unit control selectors. Each register width has its own write and
// read selector; the payload is the group byte, the sub-address byte and the
// value, most significant byte first.
const (
	XUSelectorWriteRegister1 uint8 = 0x01
	XUSelectorReadRegister1  uint8 = 0x04

	DefaultXUUnitID = 3
)

// XUProgrammer accesses registers through vendor extension unit controls of the
// video control interface.
type XUProgrammer struct {
	sizes       RegisterSizes
	dev         ControlTransferer
	unitID      uint8
	ifnum       uint8
	timeout     time.Duration
	initialized bool
}

type XUOption func(*XUProgrammer)

func WithXUUnit(unitID, interfaceNumber uint8) XUOption {
	return func(p *XUProgrammer) {
		p.unitID = unitID
		p.ifnum = interfaceNumber
	}
}

func WithXUTimeout(timeout time.Duration) XUOption {
	return func(p *XUProgrammer) {
		p.timeout = timeout
	}
}

// NewXUProgrammer probes the extension unit with GET_INFO. A failed probe
// leaves the programmer uninitialized rather than returning an error.
func NewXUProgrammer(sizes RegisterSizes, dev ControlTransferer, opts ...XUOption) *XUProgrammer {
	p := &XUProgrammer{
		sizes:   sizes,
		dev:     dev,
		unitID:  DefaultXUUnitID,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if dev == nil || len(sizes) == 0 {
		return p
	}
	info := make([]byte, 1)
	n, err := dev.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceGetRequest),
		uint8(requests.RequestCodeGetInfo),
		uint16(XUSelectorWriteRegister1)<<8,
		p.index(),
		info,
		p.timeout,
	)
	p.initialized = err == nil && n == 1
	return p
}

func (p *XUProgrammer) IsInitialized() bool {
	return p.initialized
}

func (p *XUProgrammer) index() uint16 {
	return uint16(p.unitID)<<8 | uint16(p.ifnum)
}

func (p *XUProgrammer) WriteRegister(address, value uint32) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	size, err := p.sizes.size(address)
	if err != nil {
		return err
	}
	buf := make([]byte, 2+size)
	buf[0] = group(address)
	buf[1] = subAddress(address)
	putBigEndian(buf[2:], value)

	selector := XUSelectorWriteRegister1 + size - 1
	if _, err := p.dev.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceSetRequest),
		uint8(requests.RequestCodeSetCur),
		uint16(selector)<<8,
		p.index(),
		buf,
		p.timeout,
	); err != nil {
		return fmt.Errorf("xu write 0x%04x: %w", address, err)
	}
	return nil
}

// ReadRegister latches the address with SET_CUR on the read selector and then
// fetches the value with GET_CUR.
func (p *XUProgrammer) ReadRegister(address uint32) (uint32, error) {
	if !p.initialized {
		return 0, ErrNotInitialized
	}
	size, err := p.sizes.size(address)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 2+size)
	buf[0] = group(address)
	buf[1] = subAddress(address)

	selector := XUSelectorReadRegister1 + size - 1
	if _, err := p.dev.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceSetRequest),
		uint8(requests.RequestCodeSetCur),
		uint16(selector)<<8,
		p.index(),
		buf,
		p.timeout,
	); err != nil {
		return 0, fmt.Errorf("xu latch 0x%04x: %w", address, err)
	}
	n, err := p.dev.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceGetRequest),
		uint8(requests.RequestCodeGetCur),
		uint16(selector)<<8,
		p.index(),
		buf,
		p.timeout,
	)
	if err != nil {
		return 0, fmt.Errorf("xu read 0x%04x: %w", address, err)
	}
	if n < len(buf) {
		return 0, fmt.Errorf("xu read 0x%04x: got %d bytes: %w", address, n, ErrShortTransfer)
	}
	return bigEndian(buf[2:]), nil
}

func putBigEndian(buf []byte, v uint32) {
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}

func bigEndian(buf []byte) uint32 {
	var v uint32
	for _, b := range buf {
		v = v<<8 | uint32(b)
	}
	return v
}
