package params

import "fmt"

// RegisterParameter is an unsigned integer parameter stored in bits [LSB, MSB]
// of a register that is RegisterLength bits wide.
type RegisterParameter struct {
	Info

	Address        uint32
	RegisterLength uint8
	MSB, LSB       uint8

	// FromRaw and ToRaw convert between the register field and the physical
	// value. A nil function is the identity.
	FromRaw func(raw uint32) uint32
	ToRaw   func(value uint32) uint32

	programmer Programmer
}

func NewRegisterParameter(programmer Programmer, info Info, address uint32, registerLength, msb, lsb uint8, fromRaw, toRaw func(uint32) uint32) *RegisterParameter {
	return &RegisterParameter{
		Info:           info,
		Address:        address,
		RegisterLength: registerLength,
		MSB:            msb,
		LSB:            lsb,
		FromRaw:        fromRaw,
		ToRaw:          toRaw,
		programmer:     programmer,
	}
}

func (p *RegisterParameter) fieldMask() uint32 {
	return (uint32(1)<<(p.MSB-p.LSB+1) - 1) << p.LSB
}

// RawMax is the largest value the bit field can hold.
func (p *RegisterParameter) RawMax() uint32 {
	return uint32(1)<<(p.MSB-p.LSB+1) - 1
}

func (p *RegisterParameter) fullWidth() bool {
	return p.LSB == 0 && p.MSB+1 == p.RegisterLength
}

// GetRaw reads the register and extracts the bit field.
func (p *RegisterParameter) GetRaw() (uint32, error) {
	v, err := p.programmer.ReadRegister(p.Address)
	if err != nil {
		return 0, fmt.Errorf("read %s at 0x%04x: %w", p.Identifier, p.Address, err)
	}
	return (v & p.fieldMask()) >> p.LSB, nil
}

func (p *RegisterParameter) Get() (uint32, error) {
	raw, err := p.GetRaw()
	if err != nil {
		return 0, err
	}
	if p.FromRaw == nil {
		return raw, nil
	}
	return p.FromRaw(raw), nil
}

func (p *RegisterParameter) Set(value uint32) error {
	if p.Mode == AccessReadOnly {
		return fmt.Errorf("%s: %w", p.Identifier, ErrReadOnly)
	}
	if !p.InRange(value) {
		return fmt.Errorf("%s: %d not in [%d, %d]: %w", p.Identifier, value, p.Lower, p.Upper, ErrOutOfRange)
	}
	raw := value
	if p.ToRaw != nil {
		raw = p.ToRaw(value)
	}
	if raw > p.RawMax() {
		return fmt.Errorf("%s: raw value 0x%x exceeds field: %w", p.Identifier, raw, ErrOutOfRange)
	}
	return p.SetRaw(raw)
}

// SetRaw writes raw into the bit field, preserving the other bits of the
// register when the field does not span all of it.
func (p *RegisterParameter) SetRaw(raw uint32) error {
	v := raw << p.LSB
	if !p.fullWidth() {
		cur, err := p.programmer.ReadRegister(p.Address)
		if err != nil {
			return fmt.Errorf("read %s at 0x%04x: %w", p.Identifier, p.Address, err)
		}
		v = (cur &^ p.fieldMask()) | (v & p.fieldMask())
	}
	if err := p.programmer.WriteRegister(p.Address, v); err != nil {
		return fmt.Errorf("write %s at 0x%04x: %w", p.Identifier, p.Address, err)
	}
	return nil
}
