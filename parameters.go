package tintin

import (
	"fmt"

	"github.com/kevmo314/go-tintin/pkg/params"
)

// Parameter identifiers.
const (
	ParamMixVoltage           = "mix_volt"
	ParamPVDD                 = "pvdd"
	ParamIllumPower           = "illum_power"
	ParamIllumPowerPercentage = "illum_power_percentage"

	ParamPixelDataSize   = "pixel_data_size"
	ParamFrameRate       = "frame_rate"
	ParamTillumSlaveAddr = "tillum_slave_addr"
	ParamBlkHeaderEn     = "blk_header_en"
)

// Register addresses of the board parameters.
const (
	regMixVoltage = 0x2D05
	regPVDD       = 0x2D0E
	regIllumPower = 0x2D10
)

func boardParameters(programmer params.Programmer, lookup params.Lookup) []params.Parameter {
	return []params.Parameter{
		params.NewRegisterParameter(programmer, params.Info{
			Identifier:  ParamMixVoltage,
			DisplayName: "Mixing voltage",
			UnitLabel:   "mV",
			Lower:       1200,
			Upper:       2000,
			Def:         1500,
		}, regMixVoltage, 8, 7, 0, VoltageFromRaw, VoltageToRaw),
		params.NewRegisterParameter(programmer, params.Info{
			Identifier:  ParamPVDD,
			DisplayName: "Pixel VDD",
			UnitLabel:   "mV",
			Lower:       2000,
			Upper:       3600,
			Def:         3300,
		}, regPVDD, 8, 7, 0, VoltageFromRaw, VoltageToRaw),
		params.NewRegisterParameter(programmer, params.Info{
			Identifier:  ParamIllumPower,
			DisplayName: "Illumination power",
			UnitLabel:   "mW",
			Help:        "These power numbers are approximate (+- 20%) and the actual power numbers are subject to component tolerances.",
			Lower:       illumPowerMinMW,
			Upper:       illumPowerMaxMW,
			Def:         1129,
		}, regIllumPower, 8, 7, 0, IlluminationPowerFromRaw, IlluminationPowerToRaw),
		NewPercentageParameter(params.Info{
			Identifier:  ParamIllumPowerPercentage,
			DisplayName: "Illumination power",
			UnitLabel:   "%",
			Help:        "Illumination power as a percentage of its maximum. These power numbers are approximate (+- 20%) and the actual power numbers are subject to component tolerances.",
			Lower:       48,
			Upper:       100,
			Def:         51,
		}, ParamIllumPower, lookup),
	}
}

// PercentageParameter presents another parameter as a percentage of that
// parameter's upper limit. The peer is looked up by identifier on every
// access, so it may be registered after this parameter.
type PercentageParameter struct {
	params.Info
	peer   string
	lookup params.Lookup
}

func NewPercentageParameter(info params.Info, peer string, lookup params.Lookup) *PercentageParameter {
	return &PercentageParameter{Info: info, peer: peer, lookup: lookup}
}

func (p *PercentageParameter) resolve() (params.Parameter, error) {
	if p.lookup == nil {
		return nil, fmt.Errorf("%s: %s: %w", p.Identifier, p.peer, ErrMissingPeer)
	}
	peer, ok := p.lookup.Lookup(p.peer)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", p.Identifier, p.peer, ErrMissingPeer)
	}
	return peer, nil
}

func (p *PercentageParameter) Get() (uint32, error) {
	peer, err := p.resolve()
	if err != nil {
		return 0, err
	}
	upper := peer.UpperLimit()
	if upper == 0 {
		return 0, fmt.Errorf("%s: %s has no upper limit: %w", p.Identifier, p.peer, params.ErrOutOfRange)
	}
	v, err := peer.Get()
	if err != nil {
		return 0, err
	}
	return v * 100 / upper, nil
}

func (p *PercentageParameter) Set(value uint32) error {
	if p.Mode == params.AccessReadOnly {
		return fmt.Errorf("%s: %w", p.Identifier, params.ErrReadOnly)
	}
	if !p.InRange(value) {
		return fmt.Errorf("%s: %d not in [%d, %d]: %w", p.Identifier, value, p.Lower, p.Upper, params.ErrOutOfRange)
	}
	peer, err := p.resolve()
	if err != nil {
		return err
	}
	return peer.Set(value * peer.UpperLimit() / 100)
}
