package hw

import "testing"

func TestWRAMEcho(t *testing.T) {
	gb := testGB(t)

	gb.Bus.Write8(0xC123, 0x42)
	if got := gb.Bus.Read8(0xE123); got != 0x42 {
		t.Errorf("echo read = %#02x, want 0x42", got)
	}
	gb.Bus.Write8(0xF000, 0x24)
	if got := gb.Bus.Read8(0xD000); got != 0x24 {
		t.Errorf("read through echo write = %#02x, want 0x24", got)
	}
}

func TestWRAMBankingClassic(t *testing.T) {
	gb := testGB(t)

	if got := gb.Bus.Read8(0xFF70); got != 0xFF {
		t.Errorf("SVBK = %#02x in classic mode, want 0xFF", got)
	}

	gb.Bus.Write8(0xD000, 0x11)
	gb.Bus.Write8(0xFF70, 3) // ignored
	if got := gb.Bus.Read8(0xD000); got != 0x11 {
		t.Errorf("banked read = %#02x, want 0x11: classic mode has one bank", got)
	}
}

func TestWRAMBankingColor(t *testing.T) {
	gb := testGBC(t)

	gb.Bus.Write8(0xFF70, 1)
	gb.Bus.Write8(0xD000, 0xAA)
	gb.Bus.Write8(0xFF70, 2)
	gb.Bus.Write8(0xD000, 0xBB)

	gb.Bus.Write8(0xFF70, 1)
	if got := gb.Bus.Read8(0xD000); got != 0xAA {
		t.Errorf("bank 1 read = %#02x, want 0xAA", got)
	}

	// Bank select 0 folds to 1.
	gb.Bus.Write8(0xFF70, 0)
	if got := gb.Bus.Read8(0xD000); got != 0xAA {
		t.Errorf("bank 0 read = %#02x, want 0xAA (folds to bank 1)", got)
	}
	if got := gb.Bus.Read8(0xFF70); got != 0xF8 {
		t.Errorf("SVBK = %#02x, want 0xF8", got)
	}

	// The fixed half is not affected by banking.
	gb.Bus.Write8(0xC000, 0x77)
	gb.Bus.Write8(0xFF70, 5)
	if got := gb.Bus.Read8(0xC000); got != 0x77 {
		t.Errorf("fixed bank read = %#02x, want 0x77", got)
	}
}

// Register values alias modulo 4: 5 selects the same bank as 1, 6 the same
// as 2.
func TestWRAMBankAliasing(t *testing.T) {
	gb := testGBC(t)

	gb.Bus.Write8(0xFF70, 1)
	gb.Bus.Write8(0xD000, 0x11)
	gb.Bus.Write8(0xFF70, 5)
	if got := gb.Bus.Read8(0xD000); got != 0x11 {
		t.Errorf("bank 5 read = %#02x, want 0x11 (aliases bank 1)", got)
	}

	gb.Bus.Write8(0xFF70, 6)
	gb.Bus.Write8(0xD000, 0x22)
	gb.Bus.Write8(0xFF70, 2)
	if got := gb.Bus.Read8(0xD000); got != 0x22 {
		t.Errorf("bank 2 read = %#02x, want 0x22 (aliased by bank 6)", got)
	}

	gb.Bus.Write8(0xFF70, 4)
	if got := gb.Bus.Read8(0xD000); got == 0x11 || got == 0x22 {
		t.Errorf("bank 4 read = %#02x, want a distinct bank", got)
	}
}

func TestHRAM(t *testing.T) {
	gb := testGB(t)

	gb.Bus.Write8(0xFF80, 0x5A)
	if got := gb.Bus.Read8(0xFF80); got != 0x5A {
		t.Errorf("HRAM read = %#02x, want 0x5A", got)
	}

	gb.Bus.Write8(0xFFFE, 0xA5)
	if got := gb.Bus.Read8(0xFFFE); got != 0xA5 {
		t.Errorf("HRAM top read = %#02x, want 0xA5", got)
	}
}

func TestProhibitedRegion(t *testing.T) {
	gb := testGB(t)

	gb.Bus.Write8(0xFEA3, 0x42) // ignored
	if got := gb.Bus.Read8(0xFEA3); got != 0x33 {
		t.Errorf("read(0xFEA3) = %#02x, want 0x33", got)
	}
	if got := gb.Bus.Read8(0xFEB7); got != 0x77 {
		t.Errorf("read(0xFEB7) = %#02x, want 0x77", got)
	}
	if got := gb.Bus.Read8(0xFEA0); got != 0x00 {
		t.Errorf("read(0xFEA0) = %#02x, want 0x00", got)
	}
}

func TestUnmappedReadsFF(t *testing.T) {
	gb := testGB(t)

	// Serial transfer data exists, but 0xFF03 is a hole.
	if got := gb.Bus.Read8(0xFF03); got != 0xFF {
		t.Errorf("read(0xFF03) = %#02x, want 0xFF", got)
	}
}
