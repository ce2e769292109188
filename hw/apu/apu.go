// Package apu implements the four-channel sound controller: two pulse
// channels, a custom-waveform channel and a noise channel, paced by a frame
// sequencer derived from the shared divider register.
package apu

import "garnet/hw/hwio"

// Apu is the sound controller. Tick produces two stereo sample pairs per
// M-cycle (the wave channel runs at twice the cycle resolution).
type Apu struct {
	VOL  hwio.Reg8 `hwio:"offset=0x24"`
	PAN  hwio.Reg8 `hwio:"offset=0x25"`
	CTRL hwio.Reg8 `hwio:"offset=0x26,rwmask=0x80,rcb=ReadCTRL"`

	Ch1 squareChannel
	Ch2 squareChannel
	Ch3 waveChannel
	Ch4 noiseChannel

	seq divCounter
}

func New() *Apu {
	a := &Apu{
		Ch1: newSquareChannel(),
		Ch2: newSquareChannel(),
		Ch3: newWaveChannel(),
		Ch4: newNoiseChannel(),
	}
	// bind callbacks after the channels sit at their final addresses
	hwio.MustInitRegs(&a.Ch1)
	hwio.MustInitRegs(&a.Ch2)
	hwio.MustInitRegs(&a.Ch3)
	hwio.MustInitRegs(&a.Ch4)
	hwio.MustInitRegs(a)
	return a
}

// MapInto maps the whole register file: NR10-NR52 plus wave RAM.
func (a *Apu) MapInto(table *hwio.Table) {
	table.MapBank(0xFF10, &a.Ch1, 1) // sweep
	table.MapBank(0xFF10, &a.Ch1, 0)
	table.MapBank(0xFF15, &a.Ch2, 0)
	table.MapBank(0xFF00, &a.Ch3, 0)
	table.MapBank(0xFF00, &a.Ch4, 0)
	table.MapBank(0xFF00, a, 0)
}

// NR52 composes the per-channel running bits; only the master enable is
// writable.
func (a *Apu) ReadCTRL(val uint8) uint8 {
	out := val&0x80 | 0x70
	if a.Ch1.enabled {
		out |= 0x01
	}
	if a.Ch2.enabled {
		out |= 0x02
	}
	if a.Ch3.enabled {
		out |= 0x04
	}
	if a.Ch4.enabled {
		out |= 0x08
	}
	return out
}

func (a *Apu) enabled() bool {
	return a.CTRL.Value&0x80 != 0
}

// reset restores power-on defaults, keeping only the master enable bit.
// It runs every cycle while the controller is switched off.
func (a *Apu) reset() {
	a.VOL.Value = 0
	a.PAN.Value = 0
	a.Ch1.reset()
	a.Ch2.reset()
	a.Ch3.reset()
	a.Ch4.reset()
	a.seq = divCounter{}
}

// dac converts a channel's raw sample to an analog level in [-1, 1], or
// silence when the channel's DAC is off.
func dac(enabled bool, input, volume uint8) float32 {
	if !enabled {
		return 0
	}
	return float32(int8(volume)-int8(input)*2) / 15
}

func mix(bits uint8, ch1, ch2, ch3, ch4 float32) float32 {
	var out float32
	if bits&0x01 != 0 {
		out += ch1
	}
	if bits&0x02 != 0 {
		out += ch2
	}
	if bits&0x04 != 0 {
		out += ch3
	}
	if bits&0x08 != 0 {
		out += ch4
	}
	return out / 4
}

func (a *Apu) frame() [2]float32 {
	s1, v1 := a.Ch1.sample()
	s2, v2 := a.Ch2.sample()
	s3, v3 := a.Ch3.sample()
	s4, v4 := a.Ch4.sample()
	ch1 := dac(a.Ch1.dacEnabled(), s1, v1)
	ch2 := dac(a.Ch2.dacEnabled(), s2, v2)
	ch3 := dac(a.Ch3.dacEnabled(), s3, v3)
	ch4 := dac(a.Ch4.dacEnabled(), s4, v4)

	left := mix(a.PAN.Value>>4, ch1, ch2, ch3, ch4)
	right := mix(a.PAN.Value, ch1, ch2, ch3, ch4)

	left *= (float32(a.VOL.Value>>4&7) + 1) / 8 / 4
	right *= (float32(a.VOL.Value&7) + 1) / 8 / 4

	return [2]float32{left, right}
}

// Tick advances the controller by one M-cycle, observing the timer's DIV
// value for the frame sequencer, and returns the two stereo pairs produced.
func (a *Apu) Tick(div uint8) [2][2]float32 {
	if !a.enabled() {
		a.reset()
		return [2][2]float32{}
	}

	a.seq.clock(div)

	a.Ch1.clock()
	a.Ch2.clock()
	a.Ch3.clock()
	a.Ch4.clock()

	if a.seq.lengthClock() {
		a.Ch1.lengthClock()
		a.Ch2.lengthClock()
		a.Ch3.lengthClock()
		a.Ch4.lengthClock()
	}
	if a.seq.envelopeClock() {
		a.Ch1.envelopeClock()
		a.Ch2.envelopeClock()
		a.Ch4.envelopeClock()
	}
	if a.seq.sweepClock() {
		a.Ch1.sweepClock()
	}

	frame1 := a.frame()
	a.Ch3.clock()
	frame2 := a.frame()

	return [2][2]float32{frame1, frame2}
}
