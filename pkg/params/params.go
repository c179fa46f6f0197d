// Package params models camera parameters: engineering-unit values that are
// either backed by a bit field of a hardware register or held on the host.
package params

import "errors"

var (
	ErrUnknownParameter   = errors.New("unknown parameter")
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrOutOfRange         = errors.New("value out of range")
	ErrReadOnly           = errors.New("parameter is read-only")
)

type Access uint8

const (
	AccessReadWrite Access = iota
	AccessReadOnly
)

func (a Access) String() string {
	switch a {
	case AccessReadWrite:
		return "rw"
	case AccessReadOnly:
		return "ro"
	}
	return "unknown"
}

// Parameter is a configurable quantity in physical units.
type Parameter interface {
	ID() string
	Name() string
	Unit() string
	Description() string
	Access() Access
	LowerLimit() uint32
	UpperLimit() uint32
	Default() uint32

	Get() (uint32, error)
	Set(value uint32) error
}

// Programmer reads and writes hardware registers. Addresses carry the register
// group in the high byte and the sub-address in the low byte.
type Programmer interface {
	ReadRegister(address uint32) (uint32, error)
	WriteRegister(address, value uint32) error
}

// Info holds the descriptive part of a parameter and implements the
// non-I/O methods of Parameter.
type Info struct {
	Identifier  string
	DisplayName string
	UnitLabel   string
	Help        string
	Mode        Access
	Lower       uint32
	Upper       uint32
	Def         uint32
}

func (i *Info) ID() string          { return i.Identifier }
func (i *Info) Name() string        { return i.DisplayName }
func (i *Info) Unit() string        { return i.UnitLabel }
func (i *Info) Description() string { return i.Help }
func (i *Info) Access() Access      { return i.Mode }
func (i *Info) LowerLimit() uint32  { return i.Lower }
func (i *Info) UpperLimit() uint32  { return i.Upper }
func (i *Info) Default() uint32     { return i.Def }

// InRange reports whether v lies within the physical bounds.
func (i *Info) InRange(v uint32) bool {
	return v >= i.Lower && v <= i.Upper
}
