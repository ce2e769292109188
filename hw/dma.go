package hw

import (
	"garnet/emu/log"
	"garnet/hw/hwio"
)

// DMACtrl implements the two DMA engines: the classic OAM transfer started
// through DMA, and the general-purpose VRAM transfer programmed through
// HDMA1-HDMA5. Only one transfer runs at a time; starting a new one while
// another is active replaces it.
type DMACtrl struct {
	DMA   hwio.Reg8 `hwio:"offset=0x46,wcb"`
	HDMA1 hwio.Reg8 `hwio:"offset=0x51,rcb=ReadHDMA"`
	HDMA2 hwio.Reg8 `hwio:"offset=0x52,rcb=ReadHDMA"`
	HDMA3 hwio.Reg8 `hwio:"offset=0x53,rcb=ReadHDMA"`
	HDMA4 hwio.Reg8 `hwio:"offset=0x54,rcb=ReadHDMA"`
	HDMA5 hwio.Reg8 `hwio:"offset=0x55,rcb,wcb"`

	Bus hwio.BankIO8

	oamActive bool
	oamSrc    uint16
	oamIdx    uint16

	genActive bool
	genSrc    uint16
	genDst    uint16
	genLen    int
}

func NewDMACtrl(bus hwio.BankIO8) *DMACtrl {
	d := &DMACtrl{Bus: bus}
	hwio.MustInitRegs(d)
	return d
}

// The HDMA source/destination registers are write-only.
func (d *DMACtrl) ReadHDMA(_ uint8) uint8 { return 0xFF }

func (d *DMACtrl) ReadHDMA5(_ uint8) uint8 {
	if !d.genActive {
		return 0xFF
	}
	return uint8(d.genLen/16-1) & 0x7F
}

func (d *DMACtrl) WriteDMA(_, val uint8) {
	d.genActive = false
	d.oamActive = true
	d.oamSrc = uint16(val) << 8
	d.oamIdx = 0
}

func (d *DMACtrl) WriteHDMA5(_, val uint8) {
	d.oamActive = false
	d.genActive = true
	d.genSrc = uint16(d.HDMA1.Value)<<8 | uint16(d.HDMA2.Value)
	d.genSrc &= 0xFFF0
	d.genDst = (uint16(d.HDMA3.Value)<<8 | uint16(d.HDMA4.Value)) & 0x1FF0
	d.genLen = (int(val&0x7F) + 1) * 16
	log.ModDMA.DebugZ("general dma").
		Hex16("src", d.genSrc).
		Hex16("dst", 0x8000|d.genDst).
		Int("len", d.genLen).
		End()
}

// StallCPU reports whether the CPU is halted waiting for a transfer.
// Only the general-purpose transfer blocks the CPU.
func (d *DMACtrl) StallCPU() bool {
	return d.genActive
}

// Tick advances the active transfer by one M-cycle: two bytes for the
// general-purpose engine, one byte for the OAM engine.
func (d *DMACtrl) Tick() {
	switch {
	case d.genActive:
		for range 2 {
			d.Bus.Write8(0x8000|d.genDst&0x1FFF, d.Bus.Read8(d.genSrc))
			d.genSrc++
			d.genDst++
			d.genLen--
		}
		if d.genLen == 0 {
			d.genActive = false
		}
	case d.oamActive:
		d.Bus.Write8(0xFE00+d.oamIdx, d.Bus.Read8(d.oamSrc+d.oamIdx))
		d.oamIdx++
		if d.oamIdx == 160 {
			d.oamActive = false
		}
	}
}
