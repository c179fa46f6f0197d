package descriptors

import (
	"encoding/binary"
	"io"
	"time"
)

// VideoProbeCommitControl is the payload of the VS_PROBE_CONTROL and
// VS_COMMIT_CONTROL requests, UVC 1.5 section 4.3.1.1.
type VideoProbeCommitControl struct {
	HintBitmask            uint16
	FormatIndex            uint8
	FrameIndex             uint8
	FrameInterval          time.Duration
	KeyFrameRate           uint16
	PFrameRate             uint16
	CompQuality            uint16
	CompWindowSize         uint16
	Delay                  uint16
	MaxVideoFrameSize      uint32
	MaxPayloadTransferSize uint32

	// uvc 1.1
	ClockFrequency     uint32
	FramingInfoBitmask uint8
	PreferedVersion    uint8
	MinVersion         uint8
	MaxVersion         uint8
}

// HintFrameInterval asks the device to keep dwFrameInterval fixed while
// negotiating.
const HintFrameInterval uint16 = 0x0001

// MarshalSize is 26 bytes for UVC 1.0 devices and 34 bytes from UVC 1.1 on.
func (vpcc *VideoProbeCommitControl) MarshalSize(bcdUVC uint16) int {
	if bcdUVC < 0x0110 {
		return 26
	}
	return 34
}

func (vpcc *VideoProbeCommitControl) MarshalInto(buf []byte) error {
	if len(buf) < 26 {
		return io.ErrShortBuffer
	}
	le := binary.LittleEndian
	le.PutUint16(buf[0:], vpcc.HintBitmask)
	buf[2] = vpcc.FormatIndex
	buf[3] = vpcc.FrameIndex
	le.PutUint32(buf[4:], uint32(vpcc.FrameInterval/(100*time.Nanosecond)))
	le.PutUint16(buf[8:], vpcc.KeyFrameRate)
	le.PutUint16(buf[10:], vpcc.PFrameRate)
	le.PutUint16(buf[12:], vpcc.CompQuality)
	le.PutUint16(buf[14:], vpcc.CompWindowSize)
	le.PutUint16(buf[16:], vpcc.Delay)
	le.PutUint32(buf[18:], vpcc.MaxVideoFrameSize)
	le.PutUint32(buf[22:], vpcc.MaxPayloadTransferSize)
	if len(buf) >= 34 {
		le.PutUint32(buf[26:], vpcc.ClockFrequency)
		buf[30] = vpcc.FramingInfoBitmask
		buf[31] = vpcc.PreferedVersion
		buf[32] = vpcc.MinVersion
		buf[33] = vpcc.MaxVersion
	}
	return nil
}

func (vpcc *VideoProbeCommitControl) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 34)
	return buf, vpcc.MarshalInto(buf)
}

func (vpcc *VideoProbeCommitControl) UnmarshalBinary(buf []byte) error {
	if len(buf) < 26 {
		return io.ErrShortBuffer
	}
	le := binary.LittleEndian
	vpcc.HintBitmask = le.Uint16(buf[0:])
	vpcc.FormatIndex = buf[2]
	vpcc.FrameIndex = buf[3]
	vpcc.FrameInterval = time.Duration(le.Uint32(buf[4:])) * 100 * time.Nanosecond
	vpcc.KeyFrameRate = le.Uint16(buf[8:])
	vpcc.PFrameRate = le.Uint16(buf[10:])
	vpcc.CompQuality = le.Uint16(buf[12:])
	vpcc.CompWindowSize = le.Uint16(buf[14:])
	vpcc.Delay = le.Uint16(buf[16:])
	vpcc.MaxVideoFrameSize = le.Uint32(buf[18:])
	vpcc.MaxPayloadTransferSize = le.Uint32(buf[22:])
	if len(buf) >= 34 {
		vpcc.ClockFrequency = le.Uint32(buf[26:])
		vpcc.FramingInfoBitmask = buf[30]
		vpcc.PreferedVersion = buf[31]
		vpcc.MinVersion = buf[32]
		vpcc.MaxVersion = buf[33]
	}
	return nil
}
