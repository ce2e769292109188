package apu

import "garnet/hw/hwio"

// squareChannel is one of the two pulse channels. Channel 1 additionally
// maps SWEEP (bank 1); channel 2 leaves it unmapped and its sweep clock is
// never driven.
type squareChannel struct {
	SWEEP hwio.Reg8 `hwio:"bank=1,offset=0x00,rwmask=0x7F,rcb=ReadSWEEP"`
	DUTY  hwio.Reg8 `hwio:"offset=0x01,rcb=ReadDUTY"`
	ENV   hwio.Reg8 `hwio:"offset=0x02,wcb=WriteENV"`
	PLOW  hwio.Reg8 `hwio:"offset=0x03,rcb=ReadPLOW"`
	PHIGH hwio.Reg8 `hwio:"offset=0x04,rcb=ReadPHIGH,wcb=WritePHIGH"`

	enabled   bool
	triggered bool
	dutyStep  uint8
	period    periodDivider
	length    lengthTimer
	envelope  envelope
	sweeper   sweeper
}

func newSquareChannel() squareChannel {
	return squareChannel{length: lengthTimer{max: 0x40}}
}

func (sc *squareChannel) ReadSWEEP(val uint8) uint8 { return val | 0x80 }

// Length bits are write-only; only the duty bits read back.
func (sc *squareChannel) ReadDUTY(val uint8) uint8 { return val | 0x3F }

func (sc *squareChannel) ReadPLOW(_ uint8) uint8 { return 0xFF }

// Only the length-enable bit reads back.
func (sc *squareChannel) ReadPHIGH(val uint8) uint8 { return val&0x40 | 0xBF }

func (sc *squareChannel) WritePHIGH(_, val uint8) {
	if val&0x80 != 0 {
		sc.triggered = true
	}
}

// Writing a DAC-off value kills the channel immediately.
func (sc *squareChannel) WriteENV(_, _ uint8) {
	sc.enabled = sc.enabled && sc.dacEnabled()
}

func (sc *squareChannel) dacEnabled() bool {
	return sc.ENV.Value&0xF8 != 0
}

func (sc *squareChannel) rawPeriod() uint16 {
	return uint16(sc.PHIGH.Value&0x07)<<8 | uint16(sc.PLOW.Value)
}

func (sc *squareChannel) setRawPeriod(period uint16) {
	sc.PLOW.Value = uint8(period)
	sc.PHIGH.Value = sc.PHIGH.Value&0xF8 | uint8(period>>8)&0x07
}

// Duty sequences: step indices at which the output is high.
func (sc *squareChannel) dutyHigh() bool {
	idx := sc.dutyStep & 7
	switch sc.DUTY.Value >> 6 {
	case 0: // 12.5%
		return idx != 7
	case 1: // 25%
		return idx != 0 && idx != 7
	case 2: // 50%
		return idx > 0 && idx <= 4
	default: // 75%
		return idx == 0 || idx == 7
	}
}

func (sc *squareChannel) sample() (uint8, uint8) {
	if !sc.enabled {
		return 0, 0
	}
	if sc.dutyHigh() {
		return sc.envelope.volume, sc.envelope.volume
	}
	return 0, sc.envelope.volume
}

func (sc *squareChannel) clock() {
	if sc.triggered {
		sc.triggered = false
		sc.enabled = true
		sc.period.trigger(negPeriod(sc.rawPeriod()))
		sc.length.trigger(int(sc.DUTY.Value & 0x3F))
		sc.envelope.init(sc.ENV.Value)
		sc.sweeper.trigger(sc.SWEEP.Value)
	}
	sc.period.clock(negPeriod(sc.rawPeriod()), func() { sc.dutyStep++ })
}

func (sc *squareChannel) lengthClock() {
	sc.length.clock(sc.PHIGH.Value&0x40 != 0, &sc.enabled)
}

func (sc *squareChannel) envelopeClock() {
	sc.envelope.clock()
}

func (sc *squareChannel) sweepClock() {
	period, action := sc.sweeper.clock(sc.SWEEP.Value, sc.rawPeriod())
	switch action {
	case sweepDisable:
		sc.enabled = false
	case sweepSet:
		sc.setRawPeriod(period)
	}
}

func (sc *squareChannel) reset() {
	regs := []*hwio.Reg8{&sc.SWEEP, &sc.DUTY, &sc.ENV, &sc.PLOW, &sc.PHIGH}
	for _, r := range regs {
		r.Value = 0
	}
	sc.enabled = false
	sc.triggered = false
	sc.dutyStep = 0
	sc.period = periodDivider{}
	sc.length.timer = 0
	sc.envelope = envelope{}
	sc.sweeper = sweeper{}
}
