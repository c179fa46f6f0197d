package tintin

import (
	"fmt"
	"math"

	"github.com/kevmo314/go-tintin/pkg/video"
)

const fieldOfViewDegrees = 87.0

var supportedVideoModes = []video.SupportedMode{
	video.NewSupportedMode(320, 240, 25, 1, 4),
	video.NewSupportedMode(160, 240, 50, 1, 4),
	video.NewSupportedMode(160, 120, 100, 1, 4),
	video.NewSupportedMode(80, 120, 200, 1, 4),
	video.NewSupportedMode(80, 60, 400, 1, 4),
	video.NewSupportedMode(320, 240, 50, 1, 2),
	video.NewSupportedMode(320, 120, 100, 1, 2),
	video.NewSupportedMode(160, 120, 200, 1, 2),
	video.NewSupportedMode(160, 60, 400, 1, 2),
	video.NewSupportedMode(80, 60, 400, 1, 2),
}

// FieldOfView is the half angle of the lens in radians.
func (c *Camera) FieldOfView() float64 {
	return fieldOfViewDegrees / 2 * math.Pi / 180
}

// SupportedVideoModes lists the modes the board streams.
func (c *Camera) SupportedVideoModes() []video.SupportedMode {
	return append([]video.SupportedMode(nil), supportedVideoModes...)
}

func maximumVideoMode(bytesPerPixel uint32) video.Mode {
	m := video.Mode{
		FrameSize: video.FrameSize{Width: 320, Height: 240},
		FrameRate: video.FrameRate{Numerator: 50, Denominator: 1},
	}
	if bytesPerPixel == 4 {
		m.FrameRate.Numerator = 25
	}
	return m
}

// MaximumVideoMode is the full-resolution mode at the current pixel depth.
func (c *Camera) MaximumVideoMode() (video.Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return video.Mode{}, err
	}
	bpp, err := c.registry.Get(ParamPixelDataSize)
	if err != nil {
		c.log.Error("read pixel data size failed", "err", err)
		return video.Mode{}, err
	}
	return maximumVideoMode(bpp), nil
}

// SetFrameSize configures the streamer for size at the current pixel depth and
// frame rate. At 4 bytes per pixel the video-class transport carries two wire
// columns per pixel, so the width sent to the device is doubled. The bulk
// streamer only needs the frame length in bytes.
func (c *Camera) SetFrameSize(size video.FrameSize) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	bpp, err := c.registry.Get(ParamPixelDataSize)
	if err != nil {
		c.log.Error("read pixel data size failed", "err", err)
		return fmt.Errorf("read %s: %w", ParamPixelDataSize, err)
	}
	fps, err := c.registry.Get(ParamFrameRate)
	if err != nil {
		c.log.Error("read frame rate failed", "err", err)
		return fmt.Errorf("read %s: %w", ParamFrameRate, err)
	}

	switch b := c.backend.(type) {
	case *VideoClassBackend:
		m := video.Mode{
			FrameSize: size,
			FrameRate: video.FrameRate{Numerator: fps, Denominator: 1},
		}
		if bpp == 4 {
			m.FrameSize.Width *= 2
		}
		if err := b.Streamer.SetVideoMode(m); err != nil {
			c.log.Error("set video mode failed", "mode", m, "err", err)
			return err
		}
		return nil
	case *BulkBackend:
		n := int(size.Width) * int(size.Height) * int(bpp)
		if err := b.Streamer.SetBufferSize(n); err != nil {
			c.log.Error("set buffer size failed", "size", n, "err", err)
			return err
		}
		return nil
	}
	c.log.Error("frame size on unknown backend")
	return ErrWrongBackend
}
