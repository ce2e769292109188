package hw

import (
	"math/bits"

	"garnet/emu/log"
	"garnet/hw/hwdefs"
	"garnet/hw/hwio"
)

// IntCtrl is the interrupt controller: the IF/IE register pair every
// peripheral requests interrupts through.
type IntCtrl struct {
	IF hwio.Reg8 `hwio:"bank=0,offset=0x0F,rwmask=0x1F,rcb"`
	IE hwio.Reg8 `hwio:"bank=1,offset=0x00"`
}

func NewIntCtrl() *IntCtrl {
	ic := new(IntCtrl)
	hwio.MustInitRegs(ic)
	return ic
}

// Unused IF bits read as 1.
func (ic *IntCtrl) ReadIF(val uint8) uint8 {
	return val | 0xE0
}

// Request raises the interrupt line(s) in src.
func (ic *IntCtrl) Request(src hwdefs.IntSource) {
	log.ModEmu.DebugZ("interrupt request").Stringer("src", src).End()
	ic.IF.Value |= uint8(src)
}

// Pending reports whether any enabled interrupt is requested, without
// consuming it.
func (ic *IntCtrl) Pending() bool {
	return ic.IE.Value&ic.IF.Value&0x1F != 0
}

// Pop consumes and returns the highest-priority pending interrupt bit index
// (bit 0 first). It must only be called when Pending() is true.
func (ic *IntCtrl) Pop() uint8 {
	pending := ic.IE.Value & ic.IF.Value & 0x1F
	bit := uint8(bits.TrailingZeros8(pending))
	ic.IF.Value &^= 1 << bit
	return bit
}
