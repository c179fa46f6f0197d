package tintin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoltageRoundTrip(t *testing.T) {
	for raw := uint32(0x80); raw <= 0xFF; raw++ {
		assert.Equal(t, raw, VoltageToRaw(VoltageFromRaw(raw)), "raw 0x%02x", raw)
	}
}

func TestVoltageFloor(t *testing.T) {
	for raw := uint32(0); raw <= 0x80; raw++ {
		assert.Equal(t, uint32(500), VoltageFromRaw(raw), "raw 0x%02x", raw)
	}
	for mv := uint32(0); mv <= 500; mv++ {
		assert.Equal(t, uint32(0x80), VoltageToRaw(mv), "%d mV", mv)
	}
}

func TestVoltageKnownCodes(t *testing.T) {
	tests := []struct {
		mv, raw uint32
	}{
		{1500, 0x94},
		{3300, 0xB8},
		{1200, 0x8E},
		{2000, 0x9E},
		{3600, 0xBE},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.raw, VoltageToRaw(tt.mv), "%d mV", tt.mv)
		assert.Equal(t, tt.mv, VoltageFromRaw(tt.raw), "raw 0x%02x", tt.raw)
	}
	// between codes the lower code wins
	assert.Equal(t, uint32(0x94), VoltageToRaw(1549))
}

func TestIlluminationPowerFromRaw(t *testing.T) {
	assert.Equal(t, uint32(2321), IlluminationPowerFromRaw(0))
	assert.Equal(t, uint32(1292), IlluminationPowerFromRaw(0x80))
	assert.Equal(t, uint32(1027), IlluminationPowerFromRaw(0xFF))
	for raw := uint32(1); raw <= 0xFF; raw++ {
		assert.Less(t, IlluminationPowerFromRaw(raw), IlluminationPowerFromRaw(raw-1), "power must fall as raw rises")
	}
}

// A raw step is several milliwatts, so the inverse is checked against the
// quantization: the chosen code reaches v and the next code falls below it.
// The code only falls short of v when the code above it reads back past the
// upper limit.
func TestIlluminationPowerRoundTrip(t *testing.T) {
	for v := uint32(1050); v <= 2200; v++ {
		r := IlluminationPowerToRaw(v)
		if p := IlluminationPowerFromRaw(r); p < v-1 {
			assert.Greater(t, IlluminationPowerFromRaw(r-1), uint32(2200), "%d mW -> raw %d", v, r)
		}
		assert.LessOrEqual(t, IlluminationPowerFromRaw(r+1), v, "%d mW -> raw %d", v, r)
	}
	assert.Equal(t, uint32(191), IlluminationPowerToRaw(1129))
	assert.Equal(t, uint32(1130), IlluminationPowerFromRaw(IlluminationPowerToRaw(1129)))
}

func TestIlluminationPowerStaysInLimits(t *testing.T) {
	for v := uint32(1050); v <= 2200; v++ {
		p := IlluminationPowerFromRaw(IlluminationPowerToRaw(v))
		assert.GreaterOrEqual(t, p, uint32(1050), "%d mW", v)
		assert.LessOrEqual(t, p, uint32(2200), "%d mW", v)
	}
	assert.Equal(t, uint32(2212), IlluminationPowerFromRaw(6))
	assert.Equal(t, uint32(7), IlluminationPowerToRaw(2200))
	assert.Equal(t, uint32(2195), IlluminationPowerFromRaw(7))
}

// illuminationPowerToRawFitted is the board vendor's closed-form fit of the
// inverse, evaluated the way the vendor tool does: the power in watts is
// rounded to single precision first.
func illuminationPowerToRawFitted(mw uint32) uint32 {
	v := float64(float32(float64(mw) / 1000))
	k := 130000 / (v + 0.22)
	return uint32((k - 51.1e3) * 28815e3 / ((164.1e3 - k) * 100e3))
}

// The analytic inverse and the vendor fit disagree on some powers, never by
// more than one code.
func TestIlluminationPowerToRawMatchesFit(t *testing.T) {
	differ := 0
	for v := uint32(1050); v <= 2200; v++ {
		analytic, fitted := IlluminationPowerToRaw(v), illuminationPowerToRawFitted(v)
		assert.InDelta(t, float64(fitted), float64(analytic), 1, "%d mW", v)
		if analytic != fitted {
			differ++
		}
	}
	assert.Equal(t, 335, differ)
	assert.Equal(t, uint32(192), illuminationPowerToRawFitted(1129))
	assert.Equal(t, uint32(191), IlluminationPowerToRaw(1129))
	// the fit overshoots both limits
	assert.Equal(t, uint32(1049), IlluminationPowerFromRaw(illuminationPowerToRawFitted(1050)))
	assert.Equal(t, uint32(2212), IlluminationPowerFromRaw(illuminationPowerToRawFitted(2200)))
}

func TestIlluminationPowerToRawClamps(t *testing.T) {
	assert.Equal(t, uint32(0), IlluminationPowerToRaw(5000))
	assert.Equal(t, uint32(255), IlluminationPowerToRaw(1000))
	assert.Equal(t, uint32(255), IlluminationPowerToRaw(0))
}
