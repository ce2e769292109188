package hw

import (
	"garnet/hw/hwdefs"
	"garnet/hw/hwio"
)

// Button identifies a single pad input.
type Button uint8

const (
	BtnRight Button = iota
	BtnLeft
	BtnUp
	BtnDown
	BtnA
	BtnB
	BtnSelect
	BtnStart
)

var btnNames = [8]string{"right", "left", "up", "down", "a", "b", "select", "start"}

func (b Button) String() string { return btnNames[b&7] }

// ButtonByName maps a lowercase button name back to its Button value.
func ButtonByName(name string) (Button, bool) {
	for i, s := range btnNames {
		if s == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Joypad implements the P1 register. Only the two column-select bits are
// writable; the low nibble reflects the selected button column, active low.
type Joypad struct {
	P1 hwio.Reg8 `hwio:"offset=0x00,rwmask=0x30,rcb"`

	Ints *IntCtrl

	// pressed buttons, one bit per Button, active high
	state uint8
}

func NewJoypad(ints *IntCtrl) *Joypad {
	j := &Joypad{Ints: ints}
	hwio.MustInitRegs(j)
	j.P1.Value = 0x30
	return j
}

func (j *Joypad) ReadP1(val uint8) uint8 {
	out := val&0x30 | 0xC0
	sel := ^val
	var col uint8
	if sel&0x10 != 0 {
		col |= j.state & 0x0F
	}
	if sel&0x20 != 0 {
		col |= j.state >> 4
	}
	return out | ^col&0x0F
}

// SetButton updates one button. A press requests the Joypad interrupt.
func (j *Joypad) SetButton(b Button, pressed bool) {
	if pressed {
		j.state |= 1 << b
		j.Ints.Request(hwdefs.Joypad)
	} else {
		j.state &^= 1 << b
	}
}
