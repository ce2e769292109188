package hw

import "testing"

func TestJoypadColumns(t *testing.T) {
	gb := testGB(t)

	// Nothing selected: low nibble reads released.
	gb.Bus.Write8(0xFF00, 0x30)
	if got := gb.Bus.Read8(0xFF00); got != 0xFF {
		t.Errorf("P1 = %#02x with no column selected, want 0xFF", got)
	}

	gb.Joypad.SetButton(BtnDown, true)
	gb.Joypad.SetButton(BtnA, true)

	gb.Bus.Write8(0xFF00, 0x20) // directions column (bit 4 low)
	if got := gb.Bus.Read8(0xFF00); got != 0xE7 {
		t.Errorf("P1 = %#02x for directions, want 0xE7", got)
	}

	gb.Bus.Write8(0xFF00, 0x10) // actions column (bit 5 low)
	if got := gb.Bus.Read8(0xFF00); got != 0xDE {
		t.Errorf("P1 = %#02x for actions, want 0xDE", got)
	}

	// Both columns merge.
	gb.Bus.Write8(0xFF00, 0x00)
	if got := gb.Bus.Read8(0xFF00); got != 0xC6 {
		t.Errorf("P1 = %#02x for both columns, want 0xC6", got)
	}

	gb.Joypad.SetButton(BtnDown, false)
	gb.Bus.Write8(0xFF00, 0x20)
	if got := gb.Bus.Read8(0xFF00); got != 0xEF {
		t.Errorf("P1 = %#02x after release, want 0xEF", got)
	}
}

func TestJoypadInterrupt(t *testing.T) {
	gb := testGB(t)

	gb.Joypad.SetButton(BtnStart, true)
	if gb.Ints.IF.Value&0x10 == 0 {
		t.Errorf("joypad interrupt not requested on press")
	}

	gb.Ints.IF.Value = 0
	gb.Joypad.SetButton(BtnStart, false)
	if gb.Ints.IF.Value != 0 {
		t.Errorf("joypad interrupt requested on release")
	}
}

func TestButtonByName(t *testing.T) {
	for b := BtnRight; b <= BtnStart; b++ {
		got, ok := ButtonByName(b.String())
		if !ok || got != b {
			t.Errorf("ButtonByName(%q) = %v, %v", b.String(), got, ok)
		}
	}
	if _, ok := ButtonByName("turbo"); ok {
		t.Errorf("ButtonByName(turbo) = ok")
	}
}
