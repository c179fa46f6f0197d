package transfers

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	usb "github.com/kevmo314/go-usb"

	"github.com/kevmo314/go-tintin/pkg/descriptors"
	"github.com/kevmo314/go-tintin/pkg/formats"
	"github.com/kevmo314/go-tintin/pkg/requests"
	"github.com/kevmo314/go-tintin/pkg/video"
)

const (
	// libuvc uses 100 transfers, goroutines keep up with far fewer.
	isochronousTransfers  = 8
	maxPacketsPerTransfer = 128
	frameQueueDepth       = 4
)

// UVCStreamer negotiates an uncompressed video mode with probe/commit and
// reassembles frames from the isochronous endpoint.
type UVCStreamer struct {
	dev     Device
	timeout time.Duration

	bcdUVC   uint16
	ifnum    uint8
	endpoint uint8
	alts     []usb.InterfaceAltSetting
	streams  *descriptors.StreamingDescriptors
	format   *descriptors.UncompressedFormatDescriptor

	mu        sync.Mutex
	committed *descriptors.VideoProbeCommitControl
	mode      video.Mode
	streaming bool
	frames    chan []byte
	ring      []IsochronousTransfer
	stop      chan struct{}
	done      chan struct{}
}

type UVCStreamerOption func(*UVCStreamer)

func WithControlTimeout(d time.Duration) UVCStreamerOption {
	return func(s *UVCStreamer) { s.timeout = d }
}

// NewUVCStreamer reads the active configuration of dev. A device without a
// video streaming interface carrying an uncompressed format yields a streamer
// that reports !IsInitialized.
func NewUVCStreamer(dev Device, opts ...UVCStreamerOption) *UVCStreamer {
	s := &UVCStreamer{dev: dev, timeout: time.Second, bcdUVC: 0x0100}
	for _, opt := range opts {
		opt(s)
	}
	config, err := dev.GetActiveConfigDescriptor()
	if err != nil {
		return s
	}
	for _, iface := range config.Interfaces {
		if len(iface.AltSettings) == 0 || iface.AltSettings[0].InterfaceClass != interfaceClassVideo {
			continue
		}
		alt := iface.AltSettings[0]
		switch alt.InterfaceSubClass {
		case interfaceSubclassVideoControl:
			if v, ok := videoControlVersion(alt.Extra); ok {
				s.bcdUVC = v
			}
		case interfaceSubclassVideoStreaming:
			if s.streams != nil {
				continue
			}
			streams, err := descriptors.ParseStreaming(alt.Extra)
			if err != nil || len(streams.Formats) == 0 {
				continue
			}
			s.streams = streams
			s.ifnum = alt.InterfaceNumber
			s.alts = iface.AltSettings
			s.format = pickFormat(streams.Formats)
			s.endpoint = isochronousEndpoint(iface.AltSettings)
		}
	}
	return s
}

// videoControlVersion extracts bcdUVC from the class-specific VC header.
func videoControlVersion(extra []byte) (uint16, bool) {
	for i := 0; i+2 < len(extra); {
		n := int(extra[i])
		if n < 3 || i+n > len(extra) {
			return 0, false
		}
		block := extra[i : i+n]
		if block[1] == byte(descriptors.ClassSpecificDescriptorTypeInterface) && block[2] == 0x01 && n >= 5 {
			return binary.LittleEndian.Uint16(block[3:5]), true
		}
		i += n
	}
	return 0, false
}

func pickFormat(fs []*descriptors.UncompressedFormatDescriptor) *descriptors.UncompressedFormatDescriptor {
	for _, f := range fs {
		if f.GUIDFormat == formats.CompressionFormatYUY2 {
			return f
		}
	}
	return fs[0]
}

func isochronousEndpoint(alts []usb.InterfaceAltSetting) uint8 {
	for _, alt := range alts {
		for _, ep := range alt.Endpoints {
			if ep.EndpointAddr&0x80 != 0 && ep.Attributes&0x03 == endpointTransferTypeIsochronous {
				return ep.EndpointAddr
			}
		}
	}
	return 0
}

func (s *UVCStreamer) IsInitialized() bool {
	return s.streams != nil && s.endpoint != 0
}

// UVCVersion is the bcdUVC reported by the video control header.
func (s *UVCStreamer) UVCVersion() uint16 {
	return s.bcdUVC
}

func (s *UVCStreamer) VideoMode() (video.Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.committed != nil
}

// SetVideoMode commits the frame matching m. Modes whose size or interval the
// device does not advertise are rejected before any control transfer.
func (s *UVCStreamer) SetVideoMode(m video.Mode) error {
	if !s.IsInitialized() {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return ErrStreaming
	}
	if m.FrameSize.Width > 0xFFFF || m.FrameSize.Height > 0xFFFF {
		return fmt.Errorf("%w: %s", ErrUnsupportedVideoMode, m)
	}
	frame, ok := s.streams.FindFrame(s.format.FormatIndex, uint16(m.FrameSize.Width), uint16(m.FrameSize.Height))
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedVideoMode, m)
	}
	interval := m.FrameRate.Interval()
	if !frame.SupportsInterval(interval) {
		return fmt.Errorf("%w: %s", ErrUnsupportedVideoMode, m)
	}

	vpcc := &descriptors.VideoProbeCommitControl{
		HintBitmask:   descriptors.HintFrameInterval,
		FormatIndex:   s.format.FormatIndex,
		FrameIndex:    frame.FrameIndex,
		FrameInterval: interval,
	}
	buf := make([]byte, vpcc.MarshalSize(s.bcdUVC))
	if err := vpcc.MarshalInto(buf); err != nil {
		return err
	}
	if err := s.control(requests.RequestTypeVideoInterfaceSetRequest, requests.RequestCodeSetCur, requests.VideoStreamingInterfaceControlSelectorProbeControl, buf); err != nil {
		return fmt.Errorf("probe set: %w", err)
	}
	if err := s.control(requests.RequestTypeVideoInterfaceGetRequest, requests.RequestCodeGetCur, requests.VideoStreamingInterfaceControlSelectorProbeControl, buf); err != nil {
		return fmt.Errorf("probe get: %w", err)
	}
	if err := s.control(requests.RequestTypeVideoInterfaceSetRequest, requests.RequestCodeSetCur, requests.VideoStreamingInterfaceControlSelectorCommitControl, buf); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	negotiated := &descriptors.VideoProbeCommitControl{}
	if err := negotiated.UnmarshalBinary(buf); err != nil {
		return err
	}
	s.committed = negotiated
	s.mode = m
	return nil
}

func (s *UVCStreamer) control(rt requests.RequestType, rc requests.RequestCode, sel requests.VideoStreamingInterfaceControlSelector, buf []byte) error {
	n, err := s.dev.ControlTransfer(uint8(rt), uint8(rc), sel.Value(), uint16(s.ifnum), buf, s.timeout)
	if err != nil {
		return err
	}
	if n < 26 {
		return fmt.Errorf("short probe/commit transfer: %d bytes", n)
	}
	return nil
}

// Start selects the alternate setting that fits the committed payload size
// and begins streaming.
func (s *UVCStreamer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committed == nil {
		return ErrNoVideoMode
	}
	if s.streaming {
		return ErrStreaming
	}
	alt, packetSize, ok := s.findIsochronousAltSetting(s.committed.MaxPayloadTransferSize)
	if !ok || packetSize == 0 {
		return fmt.Errorf("no alternate setting carries endpoint 0x%02x", s.endpoint)
	}
	if err := s.dev.ClaimInterface(s.ifnum); err != nil {
		return fmt.Errorf("claim interface %d: %w", s.ifnum, err)
	}
	if err := s.dev.SetInterfaceAltSetting(s.ifnum, alt); err != nil {
		return fmt.Errorf("set alt setting %d: %w", alt, err)
	}
	packets := int(min((s.committed.MaxVideoFrameSize+packetSize-1)/packetSize, maxPacketsPerTransfer))
	packets = max(packets, 1)

	ring := make([]IsochronousTransfer, 0, isochronousTransfers)
	for range isochronousTransfers {
		tx, err := s.dev.OpenIsochronous(s.endpoint, packets, int(packetSize))
		if err == nil {
			err = tx.Submit()
		}
		if err != nil {
			for _, tx := range ring {
				tx.Cancel()
			}
			_ = s.dev.SetInterfaceAltSetting(s.ifnum, 0)
			return fmt.Errorf("start isochronous stream: %w", err)
		}
		ring = append(ring, tx)
	}

	frames := make(chan []byte, frameQueueDepth)
	s.ring = ring
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go pump(ring, frames, s.stop, s.done)
	s.frames = frames
	s.streaming = true
	return nil
}

// findIsochronousAltSetting returns the first alternate setting whose packet
// size holds payloadSize, or the largest one.
//
// UVC 1.5 section 2.4.3: alternate setting zero is the zero-bandwidth setting
// and has no endpoints.
func (s *UVCStreamer) findIsochronousAltSetting(payloadSize uint32) (uint8, uint32, bool) {
	var (
		found      bool
		alt        uint8
		packetSize uint32
	)
	for _, a := range s.alts {
		for _, ep := range a.Endpoints {
			if ep.EndpointAddr != s.endpoint {
				continue
			}
			size := endpointPacketSize(ep.MaxPacketSize)
			if !found || size > packetSize {
				found, alt, packetSize = true, a.AlternateSetting, size
			}
			if size >= payloadSize {
				return a.AlternateSetting, size, true
			}
		}
	}
	return alt, packetSize, found
}

// endpointPacketSize accounts for high-bandwidth endpoints, USB 2.0 section
// 9.6.6: bits 12..11 give additional transactions per microframe.
func endpointPacketSize(maxPacketSize uint16) uint32 {
	base := uint32(maxPacketSize & 0x07FF)
	return base * (1 + uint32(maxPacketSize>>11)&0x03)
}

// ReadFrame blocks until a complete frame arrives or ctx is done.
func (s *UVCStreamer) ReadFrame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	frames, streaming := s.frames, s.streaming
	s.mu.Unlock()
	if !streaming {
		return nil, ErrNotStreaming
	}
	select {
	case f, ok := <-frames:
		if !ok {
			return nil, ErrNotStreaming
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pump waits on the ring in submission order, feeds completed packets to the
// frame assembler and resubmits. It returns when stop is closed or a transfer
// fails, closing frames on the way out.
func pump(ring []IsochronousTransfer, frames chan<- []byte, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(frames)
	asm := &frameAssembler{emit: func(frame []byte) {
		select {
		case frames <- frame:
		default:
			// reader is behind, drop the frame
		}
	}}
	// every slot but the one being waited on is still in flight
	drain := func(current int) {
		for j, tx := range ring {
			if j != current {
				tx.Cancel()
				tx.Wait()
			}
		}
	}
	for i := 0; ; i = (i + 1) % len(ring) {
		tx := ring[i]
		err := tx.Wait()
		select {
		case <-stop:
			drain(i)
			return
		default:
		}
		if err != nil {
			drain(i)
			return
		}
		for _, data := range tx.Packets() {
			p := &Payload{}
			if err := p.UnmarshalBinary(data); err != nil {
				continue
			}
			asm.push(p)
		}
		if err := tx.Submit(); err != nil {
			drain(i)
			return
		}
	}
}

// Close cancels the outstanding transfers and returns the interface to the
// zero-bandwidth setting.
func (s *UVCStreamer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.streaming {
		return nil
	}
	s.streaming = false
	select {
	case <-s.done:
	default:
		close(s.stop)
		for _, tx := range s.ring {
			tx.Cancel()
		}
		<-s.done
	}
	s.ring = nil
	return s.dev.SetInterfaceAltSetting(s.ifnum, 0)
}
