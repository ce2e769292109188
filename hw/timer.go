package hw

import (
	"garnet/hw/hwdefs"
	"garnet/hw/hwio"
)

// Timer implements the DIV/TIMA divider and timer circuit. DIV is the high
// byte of a free-running 16-bit counter; TIMA ticks on falling edges of the
// counter bit selected by TAC.
type Timer struct {
	DIV  hwio.Reg8 `hwio:"offset=0x04,rcb,wcb"`
	TIMA hwio.Reg8 `hwio:"offset=0x05"`
	TMA  hwio.Reg8 `hwio:"offset=0x06"`
	TAC  hwio.Reg8 `hwio:"offset=0x07,rwmask=0x07,rcb"`

	Ints *IntCtrl

	counter uint16
}

func NewTimer(ints *IntCtrl) *Timer {
	t := &Timer{Ints: ints}
	hwio.MustInitRegs(t)
	return t
}

func (t *Timer) ReadDIV(_ uint8) uint8 {
	return t.Divider()
}

// Divider is the current DIV value, the upper byte of the free-running
// counter.
func (t *Timer) Divider() uint8 {
	return uint8(t.counter >> 8)
}

// Writing any value to DIV clears the whole internal counter, which can
// also drop a pending TIMA edge.
func (t *Timer) WriteDIV(_, _ uint8) {
	t.tick(0)
}

func (t *Timer) ReadTAC(val uint8) uint8 {
	return val | 0xF8
}

// Tick advances the timer by one M-cycle (4 T-cycles of the divider).
func (t *Timer) Tick() {
	t.tick(t.counter + 4)
}

func (t *Timer) tick(next uint16) {
	old := t.counter
	t.counter = next
	if t.TAC.Value&0x04 == 0 {
		return
	}
	turnedOff := old &^ next
	bit := 2*((t.TAC.Value-1)&3) + 3
	if turnedOff>>bit&1 == 0 {
		return
	}
	t.TIMA.Value++
	if t.TIMA.Value == 0 {
		t.TIMA.Value = t.TMA.Value
		t.Ints.Request(hwdefs.Timer)
	}
}
