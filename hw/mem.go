package hw

import "garnet/hw/hwio"

// WorkRAM is the work RAM: a fixed 4KB bank at 0xC000 and a switchable bank
// at 0xD000 selected through SVBK, plus the echo mirror at 0xE000. Register
// values 1-7 alias modulo 4 onto the four switchable banks, 0 selects the
// first. Classic mode is hardwired to the first switchable bank.
type WorkRAM struct {
	RAM  hwio.Device `hwio:"bank=0,offset=0x00,size=0x3E00,rcb,wcb,pcb"`
	SVBK hwio.Reg8   `hwio:"bank=1,offset=0x70,rwmask=0x07,rcb"`
	HRAM hwio.Mem    `hwio:"bank=1,offset=0x80,size=0x80,vsize=0x7F"`

	// CGB is the current operating mode; it gates the SVBK bank switch.
	CGB bool

	banks [5][0x1000]uint8
}

func NewWorkRAM() *WorkRAM {
	w := new(WorkRAM)
	hwio.MustInitRegs(w)
	return w
}

func (w *WorkRAM) ReadSVBK(val uint8) uint8 {
	if !w.CGB {
		return 0xFF
	}
	return val | 0xF8
}

func (w *WorkRAM) bankIdx() int {
	if !w.CGB || w.SVBK.Value == 0 {
		return 1
	}
	return int(w.SVBK.Value-1)&3 + 1
}

func (w *WorkRAM) ptr(addr uint16) *uint8 {
	addr &= 0x1FFF // fold the echo region back onto 0xC000
	if addr < 0x1000 {
		return &w.banks[0][addr]
	}
	return &w.banks[w.bankIdx()][addr&0x0FFF]
}

func (w *WorkRAM) ReadRAM(addr uint16) uint8       { return *w.ptr(addr) }
func (w *WorkRAM) PeekRAM(addr uint16) uint8       { return *w.ptr(addr) }
func (w *WorkRAM) WriteRAM(addr uint16, val uint8) { *w.ptr(addr) = val }

// Prohibited is the unusable 0xFEA0-0xFEFF gap. Reads reflect the low nibble
// of the address in both nibbles; writes are dropped.
type Prohibited struct {
	GAP hwio.Device `hwio:"offset=0x00,size=0x60,rcb,pcb"`
}

func NewProhibited() *Prohibited {
	p := new(Prohibited)
	hwio.MustInitRegs(p)
	return p
}

func (p *Prohibited) ReadGAP(addr uint16) uint8 {
	n := uint8(addr) & 0x0F
	return n<<4 | n
}

func (p *Prohibited) PeekGAP(addr uint16) uint8 { return p.ReadGAP(addr) }
