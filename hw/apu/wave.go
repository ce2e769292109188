package apu

import "garnet/hw/hwio"

// waveChannel plays 32 4-bit steps out of its 16-byte wave RAM. While the
// channel runs, CPU accesses to wave RAM land on the byte currently being
// played rather than the addressed one.
type waveChannel struct {
	DACEN hwio.Reg8 `hwio:"offset=0x1A,rwmask=0x80,rcb=ReadDACEN,wcb=WriteDACEN"`
	LEN   hwio.Reg8 `hwio:"offset=0x1B,rcb=ReadLEN"`
	LEVEL hwio.Reg8 `hwio:"offset=0x1C,rwmask=0x60,rcb=ReadLEVEL"`
	PLOW  hwio.Reg8 `hwio:"offset=0x1D,rcb=ReadPLOW"`
	PHIGH hwio.Reg8 `hwio:"offset=0x1E,rcb=ReadPHIGH,wcb=WritePHIGH"`

	WAVERAM hwio.Device `hwio:"offset=0x30,size=0x10,rcb,wcb,pcb"`

	ram       [16]uint8
	index     uint8
	enabled   bool
	triggered bool
	period    periodDivider
	length    lengthTimer
}

func newWaveChannel() waveChannel {
	return waveChannel{length: lengthTimer{max: 0xFF}}
}

func (wc *waveChannel) ReadDACEN(val uint8) uint8 { return val | 0x7F }

func (wc *waveChannel) WriteDACEN(_, _ uint8) {
	wc.enabled = wc.enabled && wc.dacEnabled()
}

func (wc *waveChannel) ReadLEN(_ uint8) uint8     { return 0xFF }
func (wc *waveChannel) ReadLEVEL(val uint8) uint8 { return val | 0x9F }
func (wc *waveChannel) ReadPLOW(_ uint8) uint8    { return 0xFF }
func (wc *waveChannel) ReadPHIGH(val uint8) uint8 { return val&0x40 | 0xBF }

func (wc *waveChannel) WritePHIGH(_, val uint8) {
	if val&0x80 != 0 {
		wc.triggered = true
	}
}

func (wc *waveChannel) ramOffset(addr uint16) int {
	if wc.enabled {
		return int(wc.index>>1) & 0x0F
	}
	return int(addr) & 0x0F
}

func (wc *waveChannel) ReadWAVERAM(addr uint16) uint8 { return wc.ram[wc.ramOffset(addr)] }
func (wc *waveChannel) PeekWAVERAM(addr uint16) uint8 { return wc.ram[wc.ramOffset(addr)] }
func (wc *waveChannel) WriteWAVERAM(addr uint16, val uint8) {
	wc.ram[wc.ramOffset(addr)] = val
}

func (wc *waveChannel) dacEnabled() bool {
	return wc.DACEN.Value&0x80 != 0
}

func (wc *waveChannel) rawPeriod() uint16 {
	return uint16(wc.PHIGH.Value&0x07)<<8 | uint16(wc.PLOW.Value)
}

func (wc *waveChannel) sample() (uint8, uint8) {
	if !wc.enabled {
		return 0, 0
	}
	level := wc.LEVEL.Value >> 5 & 3
	if level == 0 {
		return 0, 0
	}
	idx := wc.index & 0x1F
	val := wc.ram[idx>>1]
	if idx&1 == 0 {
		val >>= 4
	} else {
		val &= 0x0F
	}
	return val >> (level - 1), 0x0F
}

func (wc *waveChannel) clock() {
	if wc.triggered {
		wc.triggered = false
		wc.enabled = wc.enabled || wc.dacEnabled()
		wc.period.trigger(negPeriod(wc.rawPeriod()))
		wc.length.trigger(int(wc.LEN.Value))
		wc.index = 0
	}
	wc.period.clock(negPeriod(wc.rawPeriod()), func() { wc.index++ })
}

func (wc *waveChannel) lengthClock() {
	wc.length.clock(wc.PHIGH.Value&0x40 != 0, &wc.enabled)
}

func (wc *waveChannel) reset() {
	regs := []*hwio.Reg8{&wc.DACEN, &wc.LEN, &wc.LEVEL, &wc.PLOW, &wc.PHIGH}
	for _, r := range regs {
		r.Value = 0
	}
	wc.ram = [16]uint8{}
	wc.index = 0
	wc.enabled = false
	wc.triggered = false
	wc.period = periodDivider{}
	wc.length.timer = 0
}
