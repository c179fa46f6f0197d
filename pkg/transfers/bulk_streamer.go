package transfers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevmo314/go-tintin/pkg/usbio"
)

// DefaultBulkEndpoint is the frame data endpoint of the bulk board variant.
const DefaultBulkEndpoint uint8 = 0x82

// BulkStreamer reads fixed-size frames from a bulk IN endpoint. The frame
// size is set by the caller since the board sends no per-frame header once
// block headers are disabled.
type BulkStreamer struct {
	io       *usbio.USBIO
	endpoint uint8

	mu         sync.Mutex
	bufferSize int
	streaming  bool
}

func NewBulkStreamer(io *usbio.USBIO, endpoint uint8) *BulkStreamer {
	return &BulkStreamer{io: io, endpoint: endpoint}
}

func (s *BulkStreamer) IsInitialized() bool {
	return s.io != nil && s.io.IsInitialized() && s.endpoint&0x80 != 0
}

func (s *BulkStreamer) Endpoint() uint8 {
	return s.endpoint
}

func (s *BulkStreamer) BufferSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bufferSize
}

// SetBufferSize sets the number of bytes that make up one frame.
func (s *BulkStreamer) SetBufferSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return ErrStreaming
	}
	s.bufferSize = n
	return nil
}

func (s *BulkStreamer) Start() error {
	if !s.IsInitialized() {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bufferSize == 0 {
		return ErrInvalidBufferSize
	}
	if s.streaming {
		return ErrStreaming
	}
	s.streaming = true
	return nil
}

// ReadFrame reads until one full frame has been received. ctx is checked
// between bulk transfers; a single transfer is bounded by the bulk timeout.
func (s *BulkStreamer) ReadFrame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	size, streaming := s.bufferSize, s.streaming
	s.mu.Unlock()
	if !streaming {
		return nil, ErrNotStreaming
	}
	frame := make([]byte, size)
	for n := 0; n < size; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := s.io.BulkRead(s.endpoint, frame[n:])
		if err != nil {
			return nil, fmt.Errorf("bulk read at %d/%d: %w", n, size, err)
		}
		n += m
	}
	return frame, nil
}

func (s *BulkStreamer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaming = false
	return nil
}
