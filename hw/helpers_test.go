package hw

import (
	"bytes"
	"testing"

	"garnet/gbrom"
)

// testCart builds a minimal 32KB flat cartridge.
func testCart(t *testing.T, cgb bool) *gbrom.Cart {
	t.Helper()

	img := make([]byte, 0x8000)
	copy(img[0x134:], "HW TEST")
	if cgb {
		img[0x143] = 0x80
	}

	rom := new(gbrom.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	cart, err := gbrom.NewCart(rom)
	if err != nil {
		t.Fatal(err)
	}
	return cart
}

func testGB(t *testing.T) *GameBoy {
	t.Helper()
	return NewGameBoy(testCart(t, false), Options{})
}

func testGBC(t *testing.T) *GameBoy {
	t.Helper()
	return NewGameBoy(testCart(t, true), Options{})
}

// loadCode copies code into work RAM and points the CPU at it.
func loadCode(gb *GameBoy, code ...uint8) {
	for i, b := range code {
		gb.Bus.Write8(0xC000+uint16(i), b)
	}
	gb.Cpu.PC = 0xC000
}

// step runs the CPU until the current instruction (or interrupt service)
// retires and returns the number of M-cycles it took.
func step(gb *GameBoy) int {
	n := 1
	gb.Cpu.Tick()
	for gb.Cpu.remaining > 0 {
		gb.Cpu.Tick()
		n++
	}
	return n
}
