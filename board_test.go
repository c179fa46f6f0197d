package tintin

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	usb "github.com/kevmo314/go-usb"

	"github.com/kevmo314/go-tintin/pkg/formats"
	"github.com/kevmo314/go-tintin/pkg/transfers"
)

var errInjected = errors.New("injected transfer failure")

// fakeBoard emulates the register file of a TintinCDK board behind either
// the extension unit or the vendor request interface.
type fakeBoard struct {
	pid       uint16
	regs      map[uint32]uint32
	writes    []uint32
	failWrite int
	probeErr  error
	claimErr  error
	latched   uint32
	streamArg [4]int
	closed    bool
}

func newFakeBoard(pid uint16) *fakeBoard {
	return &fakeBoard{pid: pid, regs: make(map[uint32]uint32)}
}

func (b *fakeBoard) write(addr, v uint32) (int, error) {
	b.writes = append(b.writes, addr)
	if b.failWrite == len(b.writes) {
		return 0, errInjected
	}
	b.regs[addr] = v
	return 1, nil
}

func vendorShift(request uint8) uint {
	if request == 0x03 || request == 0x04 {
		return 8
	}
	return 0
}

func (b *fakeBoard) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	switch requestType {
	case 0xA1:
		switch {
		case request == 0x86:
			if b.probeErr != nil {
				return 0, b.probeErr
			}
			data[0] = 0x03
			return 1, nil
		case index == 1:
			// probe GET_CUR echoes what was set
			return len(data), nil
		default:
			v := b.regs[b.latched]
			for i := len(data) - 1; i >= 2; i-- {
				data[i] = byte(v)
				v >>= 8
			}
			return len(data), nil
		}
	case 0x21:
		if index == 1 {
			return len(data), nil
		}
		addr := uint32(data[0])<<8 | uint32(data[1])
		if value>>8 >= 0x04 {
			b.latched = addr
			return len(data), nil
		}
		var v uint32
		for _, c := range data[2:] {
			v = v<<8 | uint32(c)
		}
		if _, err := b.write(addr, v); err != nil {
			return 0, err
		}
		return len(data), nil
	case 0x40:
		addr := uint32(index)<<8 | uint32(value>>vendorShift(request))
		var buf [4]byte
		copy(buf[:], data)
		if _, err := b.write(addr, binary.LittleEndian.Uint32(buf[:])); err != nil {
			return 0, err
		}
		return len(data), nil
	case 0xC0:
		addr := uint32(index)<<8 | uint32(value>>vendorShift(request))
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], b.regs[addr])
		return copy(data, buf[:]), nil
	}
	return 0, errInjected
}

func (b *fakeBoard) BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	return len(data), nil
}

func (b *fakeBoard) ClaimInterface(iface uint8) error {
	return b.claimErr
}

func (b *fakeBoard) SetInterfaceAltSetting(iface, alt uint8) error {
	return nil
}

func (b *fakeBoard) GetActiveConfigDescriptor() (*usb.ConfigDescriptor, error) {
	return uvcConfig(), nil
}

func (b *fakeBoard) OpenIsochronous(endpoint uint8, numPackets, packetSize int) (transfers.IsochronousTransfer, error) {
	b.streamArg = [4]int{int(endpoint), numPackets, packetSize, b.streamArg[3] + 1}
	return &idleTransfer{cancelled: make(chan struct{})}, nil
}

func (b *fakeBoard) Descriptor() usb.DeviceDescriptor {
	return usb.DeviceDescriptor{VendorID: 0x0451, ProductID: b.pid}
}

func (b *fakeBoard) Close() error {
	b.closed = true
	return nil
}

// idleTransfer never completes until it is cancelled.
type idleTransfer struct {
	cancelled chan struct{}
	once      sync.Once
}

func (t *idleTransfer) Submit() error { return nil }

func (t *idleTransfer) Wait() error {
	<-t.cancelled
	return errInjected
}

func (t *idleTransfer) Cancel() { t.once.Do(func() { close(t.cancelled) }) }

func (t *idleTransfer) Packets() [][]byte { return nil }

func uvcConfig() *usb.ConfigDescriptor {
	var extra []byte
	format := make([]byte, 27)
	format[0], format[1], format[2], format[3], format[4] = 27, 0x24, 0x04, 1, 3
	copy(format[5:21], formats.CompressionFormatYUY2.Wire())
	extra = append(extra, format...)
	for i, size := range [][2]uint16{{640, 240}, {320, 120}, {160, 120}} {
		frame := make([]byte, 34)
		frame[0], frame[1], frame[2], frame[3] = 34, 0x24, 0x05, byte(i+1)
		binary.LittleEndian.PutUint16(frame[5:], size[0])
		binary.LittleEndian.PutUint16(frame[7:], size[1])
		binary.LittleEndian.PutUint32(frame[21:], 400000)
		frame[25] = 2
		binary.LittleEndian.PutUint32(frame[26:], 400000) // 25 fps
		binary.LittleEndian.PutUint32(frame[30:], 200000) // 50 fps
		extra = append(extra, frame...)
	}
	return &usb.ConfigDescriptor{
		Interfaces: []usb.Interface{
			{AltSettings: []usb.InterfaceAltSetting{
				{InterfaceNumber: 0, InterfaceClass: 0x0E, InterfaceSubClass: 0x01,
					Extra: []byte{0x0D, 0x24, 0x01, 0x10, 0x01, 0, 0, 0, 0, 0, 0, 1, 1}},
			}},
			{AltSettings: []usb.InterfaceAltSetting{
				{InterfaceNumber: 1, InterfaceClass: 0x0E, InterfaceSubClass: 0x02, Extra: extra},
				{InterfaceNumber: 1, AlternateSetting: 1, InterfaceClass: 0x0E, InterfaceSubClass: 0x02,
					Endpoints: []usb.Endpoint{{EndpointAddr: 0x81, Attributes: 0x05, MaxPacketSize: 0x1400}}},
			}},
		},
	}
}
