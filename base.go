package tintin

import (
	"fmt"

	"github.com/kevmo314/go-tintin/pkg/params"
)

// Base is the camera family layer the board builds on. It owns the
// parameters shared across the family and their start-time preparation.
type Base interface {
	Init(registry *params.Registry, programmer params.Programmer) error
	InitStartParams(registry *params.Registry) error
}

// HostBase keeps the family parameters on the host. It is the default Base.
type HostBase struct{}

func (HostBase) Init(registry *params.Registry, _ params.Programmer) error {
	return registry.Add(
		params.NewValueParameter(params.Info{
			Identifier:  ParamPixelDataSize,
			DisplayName: "Pixel data size",
			UnitLabel:   "bytes",
			Lower:       2,
			Upper:       4,
			Def:         4,
		}),
		params.NewValueParameter(params.Info{
			Identifier:  ParamFrameRate,
			DisplayName: "Frame rate",
			UnitLabel:   "fps",
			Lower:       1,
			Upper:       400,
			Def:         25,
		}),
		params.NewValueParameter(params.Info{
			Identifier:  ParamTillumSlaveAddr,
			DisplayName: "Illuminator slave address",
			Upper:       0x7F,
		}),
		params.NewValueParameter(params.Info{
			Identifier:  ParamBlkHeaderEn,
			DisplayName: "Bulk block header",
			Upper:       1,
			Def:         1,
		}),
	)
}

func (HostBase) InitStartParams(registry *params.Registry) error {
	for _, id := range []string{ParamPixelDataSize, ParamFrameRate, ParamTillumSlaveAddr, ParamBlkHeaderEn} {
		if _, ok := registry.Lookup(id); !ok {
			return fmt.Errorf("%s: %w", id, params.ErrUnknownParameter)
		}
	}
	return nil
}
