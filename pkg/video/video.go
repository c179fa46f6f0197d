// Package video holds the frame geometry types shared by the camera and the
// streamers.
package video

import (
	"fmt"
	"time"
)

type FrameSize struct {
	Width, Height uint32
}

func (s FrameSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

type FrameRate struct {
	Numerator, Denominator uint32
}

// Interval is the duration of one frame. A zero numerator yields zero.
func (r FrameRate) Interval() time.Duration {
	if r.Numerator == 0 {
		return 0
	}
	return time.Second * time.Duration(r.Denominator) / time.Duration(r.Numerator)
}

func (r FrameRate) String() string {
	if r.Denominator == 1 {
		return fmt.Sprintf("%dfps", r.Numerator)
	}
	return fmt.Sprintf("%d/%dfps", r.Numerator, r.Denominator)
}

type Mode struct {
	FrameSize FrameSize
	FrameRate FrameRate
}

func (m Mode) String() string {
	return m.FrameSize.String() + "@" + m.FrameRate.String()
}

// SupportedMode is a mode the board can stream at a given pixel depth.
type SupportedMode struct {
	FrameSize     FrameSize
	FrameRate     FrameRate
	BytesPerPixel uint8
}

func NewSupportedMode(width, height, numerator, denominator uint32, bytesPerPixel uint8) SupportedMode {
	return SupportedMode{
		FrameSize:     FrameSize{Width: width, Height: height},
		FrameRate:     FrameRate{Numerator: numerator, Denominator: denominator},
		BytesPerPixel: bytesPerPixel,
	}
}
