package hw

import (
	"garnet/emu/log"
	"garnet/hw/hwdefs"
	"garnet/hw/hwio"
)

//go:generate go tool stringer -type=videoMode

type videoMode uint8

const (
	modeHBlank videoMode = iota
	modeVBlank
	modeOamSearch
	modeTransfer
)

// Per-mode duration in M-cycles. One scanline is 114 cycles.
var modeCycles = [4]int{
	modeHBlank:    50,
	modeVBlank:    114,
	modeOamSearch: 21,
	modeTransfer:  43,
}

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	numScanlines = 154
)

// Ppu is the video controller: LCD registers, the two VRAM banks, sprite
// memory and the color palettes, plus the per-scanline mode state machine.
// Rendering happens all at once on the Transfer->HBlank edge.
type Ppu struct {
	LCDC hwio.Reg8 `hwio:"bank=0,offset=0x40,wcb"`
	STAT hwio.Reg8 `hwio:"bank=0,offset=0x41,rwmask=0x78,rcb"`
	SCY  hwio.Reg8 `hwio:"bank=0,offset=0x42"`
	SCX  hwio.Reg8 `hwio:"bank=0,offset=0x43"`
	LY   hwio.Reg8 `hwio:"bank=0,offset=0x44,rwmask=0x00"`
	LYC  hwio.Reg8 `hwio:"bank=0,offset=0x45"`
	BGP  hwio.Reg8 `hwio:"bank=0,offset=0x47"`
	OBP0 hwio.Reg8 `hwio:"bank=0,offset=0x48"`
	OBP1 hwio.Reg8 `hwio:"bank=0,offset=0x49"`
	WY   hwio.Reg8 `hwio:"bank=0,offset=0x4A"`
	WX   hwio.Reg8 `hwio:"bank=0,offset=0x4B"`
	VBK  hwio.Reg8 `hwio:"bank=0,offset=0x4F,rwmask=0x01,rcb"`
	BCPS hwio.Reg8 `hwio:"bank=0,offset=0x68,rwmask=0xBF,rcb"`
	BCPD hwio.Reg8 `hwio:"bank=0,offset=0x69,rcb,wcb,pcb=ReadBCPD"`
	OCPS hwio.Reg8 `hwio:"bank=0,offset=0x6A,rwmask=0xBF,rcb"`
	OCPD hwio.Reg8 `hwio:"bank=0,offset=0x6B,rcb,wcb,pcb=ReadOCPD"`

	VRAM hwio.Device `hwio:"bank=1,offset=0x00,size=0x2000,rcb,wcb,pcb=ReadVRAM"`
	OAM  hwio.Mem    `hwio:"bank=2,offset=0x00,size=0x100,vsize=0xA0"`

	Ints *IntCtrl

	// CGB selects the enhanced pixel pipeline (attributes, palette RAM,
	// bank switching).
	CGB bool

	vram   [2][0x2000]uint8
	bgPal  [64]uint8
	objPal [64]uint8

	mode      videoMode
	remaining int
	intLine   bool
	winLine   int

	// display-enable rising edge, consumed by the frame driver
	enabledEdge bool
}

func NewPpu(ints *IntCtrl) *Ppu {
	p := &Ppu{Ints: ints}
	hwio.MustInitRegs(p)
	p.mode = modeOamSearch
	p.remaining = modeCycles[modeOamSearch]
	p.resetPalettes()
	return p
}

// Power-on palette RAM: a grayscale ramp in every palette, so classic-mode
// programs see sensible shades even without a boot ROM.
func (p *Ppu) resetPalettes() {
	shades := [4]uint16{0x7FFF, 0x56B5, 0x294A, 0x0000}
	for pal := 0; pal < 8; pal++ {
		for i, c := range shades {
			off := pal*8 + i*2
			p.bgPal[off] = uint8(c)
			p.bgPal[off+1] = uint8(c >> 8)
			p.objPal[off] = uint8(c)
			p.objPal[off+1] = uint8(c >> 8)
		}
	}
}

func (p *Ppu) lcdEnabled() bool { return p.LCDC.Value&0x80 != 0 }

func (p *Ppu) WriteLCDC(old, val uint8) {
	if old&0x80 != 0 && val&0x80 == 0 {
		log.ModPPU.DebugZ("display off").Stringer("mode", p.mode).End()
		// display switched off: state freezes at the top of the frame
		p.LY.Value = 0
		p.mode = modeOamSearch
		p.remaining = modeCycles[modeOamSearch]
		p.winLine = 0
		p.intLine = false
	}
	if old&0x80 == 0 && val&0x80 != 0 {
		p.enabledEdge = true
	}
}

func (p *Ppu) ReadSTAT(val uint8) uint8 {
	if !p.lcdEnabled() {
		return 0
	}
	out := 0x80 | val&0x78 | uint8(p.mode)
	if p.LY.Value == p.LYC.Value {
		out |= 0x04
	}
	return out
}

func (p *Ppu) ReadVBK(val uint8) uint8 {
	if !p.CGB {
		return 0xFF
	}
	return 0xFE | val
}

func (p *Ppu) vramBank() int {
	if !p.CGB {
		return 0
	}
	return int(p.VBK.Value & 1)
}

func (p *Ppu) ReadVRAM(addr uint16) uint8 {
	return p.vram[p.vramBank()][addr&0x1FFF]
}

func (p *Ppu) WriteVRAM(addr uint16, val uint8) {
	p.vram[p.vramBank()][addr&0x1FFF] = val
}

func (p *Ppu) ReadBCPS(val uint8) uint8 { return val | 0x40 }
func (p *Ppu) ReadOCPS(val uint8) uint8 { return val | 0x40 }

// Palette data access goes through the index in the matching select
// register; writes advance the index when its auto-increment bit is set.
func (p *Ppu) ReadBCPD(_ uint8) uint8 { return p.bgPal[p.BCPS.Value&0x3F] }
func (p *Ppu) ReadOCPD(_ uint8) uint8 { return p.objPal[p.OCPS.Value&0x3F] }

func palAdvance(sel uint8) uint8 {
	return sel&0xC0 | (sel+sel>>7)&0x3F
}

func (p *Ppu) WriteBCPD(_, val uint8) {
	p.bgPal[p.BCPS.Value&0x3F] = val
	p.BCPS.Value = palAdvance(p.BCPS.Value)
}

func (p *Ppu) WriteOCPD(_, val uint8) {
	p.objPal[p.OCPS.Value&0x3F] = val
	p.OCPS.Value = palAdvance(p.OCPS.Value)
}

// TakeEnabledEdge consumes the display off->on edge, which makes the frame
// driver end the frame early with a blank screen.
func (p *Ppu) TakeEnabledEdge() bool {
	e := p.enabledEdge
	p.enabledEdge = false
	return e
}

// Tick advances the mode state machine by one M-cycle, rendering into fb on
// each Transfer->HBlank edge.
func (p *Ppu) Tick(fb []uint8) {
	if !p.lcdEnabled() {
		return
	}

	if p.remaining > 1 {
		p.remaining--
	} else {
		p.step(fb)
	}
	p.updateStatLine()
}

func (p *Ppu) step(fb []uint8) {
	switch p.mode {
	case modeOamSearch:
		p.setMode(modeTransfer)
	case modeTransfer:
		p.drawScanline(fb)
		p.setMode(modeHBlank)
	case modeHBlank:
		p.LY.Value++
		if p.LY.Value == ScreenHeight {
			p.Ints.Request(hwdefs.VBlank)
			p.setMode(modeVBlank)
		} else {
			p.setMode(modeOamSearch)
		}
	case modeVBlank:
		p.LY.Value++
		if p.LY.Value == numScanlines {
			p.LY.Value = 0
			p.winLine = 0
			p.setMode(modeOamSearch)
		} else {
			p.remaining = modeCycles[modeVBlank]
		}
	}
}

func (p *Ppu) setMode(mode videoMode) {
	p.mode = mode
	p.remaining = modeCycles[mode]
}

// The STAT interrupt fires on the rising edge of the combined condition
// line, not per enabled source.
func (p *Ppu) updateStatLine() {
	st := p.STAT.Value
	line := false
	switch p.mode {
	case modeHBlank:
		line = st&0x08 != 0
	case modeVBlank:
		line = st&0x10 != 0
	case modeOamSearch:
		line = st&0x20 != 0
	}
	if st&0x40 != 0 && p.LY.Value == p.LYC.Value {
		line = true
	}
	if line && !p.intLine {
		p.Ints.Request(hwdefs.Stat)
	}
	p.intLine = line
}
