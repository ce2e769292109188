package hw

import "testing"

func TestExecuteFullFrame(t *testing.T) {
	gb := testGB(t)
	fb := newFrame()

	samples := 0
	sink := func(pair [2]float32) { samples++ }

	if got := gb.Execute(fb, sink); got != CyclesPerFrame {
		t.Errorf("Execute() = %d, want %d", got, CyclesPerFrame)
	}
	if want := 2 * CyclesPerFrame; samples != want {
		t.Errorf("audio samples = %d, want %d", samples, want)
	}
}

func TestExecuteEnableEdge(t *testing.T) {
	gb := testGB(t)
	fb := newFrame()

	gb.Bus.Write8(0xFF40, 0x00)
	gb.Bus.Write8(0xFF40, 0x80)
	if got := gb.Execute(fb, nil); got != 1 {
		t.Errorf("Execute() = %d after display enable, want 1", got)
	}
	for i, b := range fb {
		if b != 0xFF {
			t.Fatalf("fb[%d] = %#02x, want white frame", i, b)
		}
	}

	// The next frame runs to completion.
	if got := gb.Execute(fb, nil); got != CyclesPerFrame {
		t.Errorf("Execute() = %d, want %d", got, CyclesPerFrame)
	}
}

func TestBootROMOverlay(t *testing.T) {
	boot := make([]uint8, 0x100)
	for i := range boot {
		boot[i] = 0x18 // JR -2: spin in place, no side effects
	}
	boot[1] = 0xFE

	gb := NewGameBoy(testCart(t, false), Options{BootROM: boot})
	if gb.Cpu.PC != 0 {
		t.Fatalf("PC = %#04x with boot rom, want 0", gb.Cpu.PC)
	}
	if got := gb.Bus.Read8(0x0000); got != 0x18 {
		t.Errorf("read(0) = %#02x, want boot byte 0x18", got)
	}
	// The overlay covers only the first page for a 256-byte image.
	if got := gb.Bus.Read8(0x0100); got != 0x00 {
		t.Errorf("read(0x100) = %#02x, want cartridge byte 0", got)
	}

	// Boot code picks classic mode, then unmaps itself.
	gb.Bus.Write8(0xFF4C, 0x04)
	gb.Bus.Write8(0xFF50, 0x01)
	if got := gb.Bus.Read8(0x0000); got != 0x00 {
		t.Errorf("read(0) = %#02x after unmap, want cartridge byte 0", got)
	}
	if gb.CGB() {
		t.Errorf("CGB() = true, want classic: boot selected mode 4")
	}

	// Unmapping is one-way.
	gb.Bus.Write8(0xFF50, 0x00)
	gb.Bus.Write8(0xFF50, 0x01)
	if got := gb.Bus.Read8(0x0000); got != 0x00 {
		t.Errorf("boot rom mapped back in")
	}
}

// The unmap latch triggers on any write, including value 0.
func TestBankZeroWriteUnmaps(t *testing.T) {
	boot := make([]uint8, 0x100)
	for i := range boot {
		boot[i] = 0x18
	}
	boot[1] = 0xFE

	gb := NewGameBoy(testCart(t, false), Options{BootROM: boot})
	gb.Bus.Write8(0xFF50, 0x00)
	if got := gb.Bus.Read8(0x0000); got != 0x00 {
		t.Errorf("read(0) = %#02x after zero write, want cartridge byte 0", got)
	}
}

// Without a boot ROM image the io registers come up in the state the boot
// code leaves them in.
func TestPostBootRegisters(t *testing.T) {
	gb := testGB(t)

	if got := gb.Bus.Read8(0xFF40); got != 0x91 {
		t.Errorf("LCDC = %#02x, want 0x91", got)
	}
	if got := gb.Bus.Read8(0xFF47); got != 0xFC {
		t.Errorf("BGP = %#02x, want 0xFC", got)
	}
	if got := gb.Bus.Read8(0xFF26); got&0x80 == 0 {
		t.Errorf("NR52 = %#02x, want sound enabled", got)
	}
	if got := gb.Bus.Read8(0xFF25); got != 0xF3 {
		t.Errorf("NR51 = %#02x, want 0xF3", got)
	}
	// The display-enable edge from construction must not cut the first
	// frame short.
	if gb.Ppu.TakeEnabledEdge() {
		t.Errorf("stale display-enable edge after construction")
	}
}

func TestSpeedSwitch(t *testing.T) {
	gb := testGBC(t)

	if !gb.cgb {
		t.Fatalf("color cart must start in color mode")
	}
	if got := gb.Bus.Read8(0xFF4D); got != 0x7E {
		t.Errorf("KEY1 = %#02x, want 0x7E", got)
	}

	// STOP without the armed bit is not absorbed.
	if gb.stop() {
		t.Errorf("stop() = true without the switch armed")
	}

	gb.Bus.Write8(0xFF4D, 0x01)
	if !gb.stop() {
		t.Fatalf("stop() = false with the switch armed")
	}
	if got := gb.Bus.Read8(0xFF4D); got != 0xFE {
		t.Errorf("KEY1 = %#02x after switch, want 0xFE", got)
	}
}

func TestForceClassic(t *testing.T) {
	gb := NewGameBoy(testCart(t, true), Options{ForceClassic: true})
	if gb.CGB() {
		t.Errorf("CGB() = true with ForceClassic set")
	}
	// Classic post-boot register state.
	if got := gb.Cpu.AF(); got != 0x01B0 {
		t.Errorf("AF = %#04x, want 0x01B0", got)
	}
}
