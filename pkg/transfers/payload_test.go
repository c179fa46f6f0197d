package transfers

import (
	"bytes"
	"errors"
	"testing"
)

func TestPayloadUnmarshalBinary_MinimalHeader(t *testing.T) {
	buf := []byte{2, 0x80, 0xDE, 0xAD, 0xBE, 0xEF}

	p := &Payload{}
	if err := p.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if p.HasPTS() || p.HasSCR() {
		t.Errorf("HasPTS() = %t, HasSCR() = %t, want false, false", p.HasPTS(), p.HasSCR())
	}
	if !p.EndOfHeader() {
		t.Error("EndOfHeader() = false, want true")
	}
	if !bytes.Equal(p.Data, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("Data = %x, want deadbeef", p.Data)
	}
}

func TestPayloadUnmarshalBinary_PTSAndSCR(t *testing.T) {
	buf := []byte{
		12,                     // header length
		0x8E,                   // EOH, SCR, PTS, EOF
		0x01, 0x02, 0x03, 0x04, // PTS
		0x11, 0x22, 0x33, 0x44, // STC
		0x55, 0x66, // token counter
		0xAA,
	}

	p := &Payload{}
	if err := p.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if p.PTS != 0x04030201 {
		t.Errorf("PTS = %08x, want %08x", p.PTS, 0x04030201)
	}
	if p.SCR.SourceTimeClock != 0x44332211 {
		t.Errorf("SCR.SourceTimeClock = %08x, want %08x", p.SCR.SourceTimeClock, 0x44332211)
	}
	if p.SCR.TokenCounter != 0x6655 {
		t.Errorf("SCR.TokenCounter = %04x, want %04x", p.SCR.TokenCounter, 0x6655)
	}
	if !p.EndOfFrame() {
		t.Error("EndOfFrame() = false, want true")
	}
	if len(p.Data) != 1 || p.Data[0] != 0xAA {
		t.Errorf("Data = %x, want aa", p.Data)
	}
}

func TestPayloadUnmarshalBinary_HeaderLengthGovernsData(t *testing.T) {
	// some devices pad the header past the fields the bitmask announces
	buf := []byte{4, 0x80, 0x00, 0x00, 0x01, 0x02}

	p := &Payload{}
	if err := p.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if !bytes.Equal(p.Data, []byte{0x01, 0x02}) {
		t.Errorf("Data = %x, want 0102", p.Data)
	}
}

func TestPayloadUnmarshalBinary_Invalid(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"one byte", []byte{2}},
		{"length below minimum", []byte{1, 0x80}},
		{"length beyond buffer", []byte{12, 0x80, 0x00}},
		{"pts does not fit", []byte{4, 0x84, 0x00, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payload{}
			if err := p.UnmarshalBinary(tt.buf); !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("UnmarshalBinary() = %v, want %v", err, ErrInvalidPayload)
			}
		})
	}
}
