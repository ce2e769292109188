package apu

import "garnet/hw/hwio"

// lfsr is the noise channel's 15/7-bit linear-feedback shift register.
type lfsr struct {
	reg uint16
}

func (l *lfsr) high() bool {
	return l.reg&1 != 0
}

func (l *lfsr) clock(short bool) {
	feedback := ^(l.reg ^ l.reg>>1) & 1
	mask := uint16(0x8000)
	if short {
		mask = 0x8080
	}
	l.reg = (l.reg&^mask | feedback*mask) >> 1
}

type noiseChannel struct {
	LEN  hwio.Reg8 `hwio:"offset=0x20,rcb=ReadLEN"`
	ENV  hwio.Reg8 `hwio:"offset=0x21,wcb=WriteENV"`
	FREQ hwio.Reg8 `hwio:"offset=0x22"`
	CTRL hwio.Reg8 `hwio:"offset=0x23,rcb=ReadCTRL,wcb=WriteCTRL"`

	enabled   bool
	triggered bool
	period    periodDivider
	length    lengthTimer
	envelope  envelope
	shift     lfsr
}

func newNoiseChannel() noiseChannel {
	return noiseChannel{length: lengthTimer{max: 0x40}}
}

func (nc *noiseChannel) ReadLEN(_ uint8) uint8 { return 0xFF }

func (nc *noiseChannel) WriteENV(_, _ uint8) {
	nc.enabled = nc.enabled && nc.dacEnabled()
}

func (nc *noiseChannel) ReadCTRL(val uint8) uint8 { return val&0x40 | 0xBF }

func (nc *noiseChannel) WriteCTRL(_, val uint8) {
	if val&0x80 != 0 {
		nc.triggered = true
	}
}

func (nc *noiseChannel) dacEnabled() bool {
	return nc.ENV.Value&0xF8 != 0
}

// FREQ: bits 0-2 divider code r, bit 3 short mode, bits 4-7 shift.
func (nc *noiseChannel) rawPeriod() uint16 {
	r := uint16(nc.FREQ.Value & 0x07)
	base := 4 * r
	if r == 0 {
		base = 2
	}
	return base << (nc.FREQ.Value >> 4)
}

func (nc *noiseChannel) sample() (uint8, uint8) {
	if !nc.enabled {
		return 0, 0
	}
	if nc.shift.high() {
		return nc.envelope.volume, nc.envelope.volume
	}
	return 0, nc.envelope.volume
}

func (nc *noiseChannel) clock() {
	if nc.triggered {
		nc.triggered = false
		nc.enabled = true
		nc.period.trigger(nc.rawPeriod())
		nc.length.trigger(int(nc.LEN.Value & 0x3F))
		nc.envelope.init(nc.ENV.Value)
		nc.shift = lfsr{}
	}
	nc.period.clock(nc.rawPeriod(), func() {
		nc.shift.clock(nc.FREQ.Value&0x08 != 0)
	})
}

func (nc *noiseChannel) lengthClock() {
	nc.length.clock(nc.CTRL.Value&0x40 != 0, &nc.enabled)
}

func (nc *noiseChannel) envelopeClock() {
	nc.envelope.clock()
}

func (nc *noiseChannel) reset() {
	regs := []*hwio.Reg8{&nc.LEN, &nc.ENV, &nc.FREQ, &nc.CTRL}
	for _, r := range regs {
		r.Value = 0
	}
	nc.enabled = false
	nc.triggered = false
	nc.period = periodDivider{}
	nc.length.timer = 0
	nc.envelope = envelope{}
	nc.shift = lfsr{}
}
