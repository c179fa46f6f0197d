package tintin

// Mixing voltage and pixel VDD regulator: one raw step is 50 mV above a
// 500 mV floor reached at raw 0x80.
const (
	voltageRawBase = 0x80
	voltageFloorMV = 500
	voltageStepMV  = 50
)

// Illumination driver: an 8-bit digital potentiometer in parallel with a
// fixed resistor, in series with the limit resistor, sets the laser current.
// Actual power varies by about +-20% with component tolerance.
const (
	illumPotFullScaleKOhm = 100.0
	illumPotSteps         = 255.0
	illumParallelKOhm     = 113.0
	illumSeriesKOhm       = 51.1
	illumCurrentVKOhm     = 118.079 // current = illumCurrentVKOhm / Rlim
	illumCurrentOffsetA   = 0.2
	illumPowerPerAmpMW    = 1100.0
	illumRawMax           = 255

	// Limits of the illum_power parameter.
	illumPowerMinMW = 1050
	illumPowerMaxMW = 2200
)

// VoltageFromRaw converts a regulator code to millivolts. Codes at or below
// 0x80 read as the 500 mV floor.
func VoltageFromRaw(raw uint32) uint32 {
	if raw > voltageRawBase {
		return (raw-voltageRawBase)*voltageStepMV + voltageFloorMV
	}
	return voltageFloorMV
}

// VoltageToRaw converts millivolts to a regulator code, truncating toward the
// lower code.
func VoltageToRaw(mv uint32) uint32 {
	if mv > voltageFloorMV {
		return (mv-voltageFloorMV)/voltageStepMV + voltageRawBase
	}
	return voltageRawBase
}

// IlluminationPowerFromRaw converts a potentiometer code to milliwatts.
func IlluminationPowerFromRaw(raw uint32) uint32 {
	r := float64(raw) * illumPotFullScaleKOhm / illumPotSteps
	rlim := r*illumParallelKOhm/(r+illumParallelKOhm) + illumSeriesKOhm
	current := illumCurrentVKOhm / rlim
	p := (current - illumCurrentOffsetA) * illumPowerPerAmpMW
	if p <= 0 {
		return 0
	}
	return uint32(p)
}

// IlluminationPowerToRaw inverts IlluminationPowerFromRaw over the same
// constants. The result is truncated and clamped to the potentiometer range,
// so powers above the raw 0 maximum give 0 and powers below the raw 255
// minimum give 255. A truncated code that would read back above the
// parameter's upper limit is stepped to the next code, so every power in
// [1050, 2200] maps to a code that reads back inside that range.
func IlluminationPowerToRaw(mw uint32) uint32 {
	current := float64(mw)/illumPowerPerAmpMW + illumCurrentOffsetA
	rlim := illumCurrentVKOhm / current
	rp := rlim - illumSeriesKOhm
	if rp <= 0 {
		return 0
	}
	if rp >= illumParallelKOhm {
		return illumRawMax
	}
	r := illumParallelKOhm * rp / (illumParallelKOhm - rp)
	raw := r * illumPotSteps / illumPotFullScaleKOhm
	if raw >= illumRawMax {
		return illumRawMax
	}
	code := uint32(raw)
	if mw <= illumPowerMaxMW && IlluminationPowerFromRaw(code) > illumPowerMaxMW {
		code++
	}
	return code
}
