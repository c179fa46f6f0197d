package transfers

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrInvalidPayload = errors.New("invalid payload header")

// Payload is one UVC payload: a header followed by image data, UVC 1.5
// section 2.4.3.3.
type Payload struct {
	HeaderInfoBitmask uint8
	PTS               uint32
	SCR               struct {
		SourceTimeClock uint32
		TokenCounter    uint16
	}
	Data []byte
}

func (p *Payload) FrameID() bool {
	return p.HeaderInfoBitmask&0b00000001 != 0
}

func (p *Payload) EndOfFrame() bool {
	return p.HeaderInfoBitmask&0b00000010 != 0
}

func (p *Payload) HasPTS() bool {
	return p.HeaderInfoBitmask&0b00000100 != 0
}

func (p *Payload) HasSCR() bool {
	return p.HeaderInfoBitmask&0b00001000 != 0
}

func (p *Payload) Error() bool {
	return p.HeaderInfoBitmask&0b01000000 != 0
}

func (p *Payload) EndOfHeader() bool {
	return p.HeaderInfoBitmask&0b10000000 != 0
}

// UnmarshalBinary parses the header. Data aliases buf.
func (p *Payload) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2 {
		return ErrInvalidPayload
	}
	hlen := int(buf[0])
	if hlen < 2 || hlen > len(buf) {
		return ErrInvalidPayload
	}
	p.HeaderInfoBitmask = buf[1]
	need := 2
	if p.HasPTS() {
		need += 4
	}
	if p.HasSCR() {
		need += 6
	}
	if need > hlen {
		return ErrInvalidPayload
	}
	offset := 2
	if p.HasPTS() {
		p.PTS = binary.LittleEndian.Uint32(buf[offset : offset+4])
		offset += 4
	}
	if p.HasSCR() {
		p.SCR.SourceTimeClock = binary.LittleEndian.Uint32(buf[offset : offset+4])
		p.SCR.TokenCounter = binary.LittleEndian.Uint16(buf[offset+4 : offset+6])
	}
	p.Data = buf[hlen:]
	return nil
}

func (p *Payload) String() string {
	return fmt.Sprintf("Payload{FID: %t, EOF: %t, ERR: %t, PTS: %d, Len: %d}",
		p.FrameID(), p.EndOfFrame(), p.Error(), p.PTS, len(p.Data))
}
