package params

import "fmt"

// ValueParameter is a parameter held on the host with no register behind it.
type ValueParameter struct {
	Info
	value uint32
}

func NewValueParameter(info Info) *ValueParameter {
	return &ValueParameter{Info: info, value: info.Def}
}

func (p *ValueParameter) Get() (uint32, error) {
	return p.value, nil
}

func (p *ValueParameter) Set(value uint32) error {
	if p.Mode == AccessReadOnly {
		return fmt.Errorf("%s: %w", p.Identifier, ErrReadOnly)
	}
	if !p.InRange(value) {
		return fmt.Errorf("%s: %d not in [%d, %d]: %w", p.Identifier, value, p.Lower, p.Upper, ErrOutOfRange)
	}
	p.value = value
	return nil
}
