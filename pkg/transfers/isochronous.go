package transfers

import (
	usb "github.com/kevmo314/go-usb"
)

// IsochronousTransfer is one slot of the isochronous ring the UVC streamer
// keeps in flight.
type IsochronousTransfer interface {
	Submit() error
	Wait() error
	Cancel()
	// Packets returns the payloads of the packets of the last completion that
	// arrived without error.
	Packets() [][]byte
}

// OpenUSBIsochronous allocates an isochronous transfer on h.
func OpenUSBIsochronous(h *usb.DeviceHandle, endpoint uint8, numPackets, packetSize int) (IsochronousTransfer, error) {
	tx, err := h.NewIsochronousTransfer(endpoint, numPackets, packetSize)
	if err != nil {
		return nil, err
	}
	return usbIsochronousTransfer{tx: tx}, nil
}

type usbIsochronousTransfer struct {
	tx *usb.IsochronousTransfer
}

func (t usbIsochronousTransfer) Submit() error { return t.tx.Submit() }
func (t usbIsochronousTransfer) Wait() error   { return t.tx.Wait() }
func (t usbIsochronousTransfer) Cancel()       { t.tx.Cancel() }

func (t usbIsochronousTransfer) Packets() [][]byte {
	var out [][]byte
	for i, pkt := range t.tx.Packets() {
		if pkt.Status != 0 || pkt.ActualLength == 0 {
			continue
		}
		data, err := t.tx.IsoPacketBuffer(i)
		if err != nil {
			continue
		}
		if n := int(pkt.ActualLength); len(data) > n {
			data = data[:n]
		}
		out = append(out, data)
	}
	return out
}
