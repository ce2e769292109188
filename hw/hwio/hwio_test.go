package hwio_test

import (
	"testing"

	"garnet/hw/hwio"
)

// Unmapped fallback, open-bus style.
type openbus struct{}

func (ob *openbus) Read8(addr uint16) uint8       { return 0xD3 }
func (ob *openbus) Peek8(addr uint16) uint8       { return 0xD4 }
func (ob *openbus) Write8(addr uint16, val uint8) {}

type testBank struct {
	t   testing.TB
	Bus *hwio.Table

	// mapped at 0xC000-0xCFFF, echoed at 0xD000-0xDFFF
	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x1000,vsize=0x2000"`

	// 0xFF40
	Reg0 hwio.Reg8 `hwio:"bank=1,offset=0x0,reset=0x77"`
	// 0xFF41
	Reg1 hwio.Reg8 `hwio:"bank=1,offset=0x1,rwmask=0xF0,rcb,reset=0x99"`
	// 0xFF42
	Reg2 hwio.Reg8 `hwio:"bank=1,offset=0x2,rwmask=0xF0,readonly,pcb=PeekReg2"`

	// 0xA000-0xA0FF
	DefaultDev hwio.Device `hwio:"bank=2,offset=0x0,size=0x100"`
	// 0xA100-0xA1FF
	DEV hwio.Device `hwio:"bank=2,offset=0x100,size=0x100,rcb,wcb"` // no peek-callback
	// 0xA200-0xA2FF
	RoDEV hwio.Device `hwio:"bank=2,offset=0x200,size=0x100,rcb,pcb,readonly"`
	// 0xA300-0xA3FF
	WoDEV hwio.Device `hwio:"bank=2,offset=0x300,size=0x100,wcb,writeonly"`

	devval uint8
}

func newTestBank(tb testing.TB) *testBank {
	bnk := &testBank{t: tb}
	hwio.MustInitRegs(bnk)

	bnk.Bus = hwio.NewTable("bus")
	bnk.Bus.MapBank(0xC000, bnk, 0)
	bnk.Bus.MapBank(0xFF40, bnk, 1)
	bnk.Bus.MapBank(0xA000, bnk, 2)
	bnk.Bus.Unmapped = &openbus{}
	return bnk
}

// 0xFF41
func (bnk *testBank) ReadREG1(val uint8) uint8 { return bnk.Reg1.Value + 1 }

// 0xFF42
func (bnk *testBank) PeekReg2(val uint8) uint8 { return 0x12 }

// 0xA100-0xA1FF
func (bnk *testBank) ReadDEV(addr uint16) uint8       { return 0xE1 }
func (bnk *testBank) WriteDEV(addr uint16, val uint8) { bnk.devval = uint8(addr) & val }

// 0xA200-0xA2FF
func (bnk *testBank) ReadRODEV(addr uint16) uint8 { return 0xC5 }
func (bnk *testBank) PeekRODEV(addr uint16) uint8 { return 0xC8 }

// 0xA300-0xA3FF
func (bnk *testBank) WriteWODEV(addr uint16, val uint8) { bnk.devval = uint8(addr) & ^val }

func (bnk *testBank) wantRead8(addr uint16, want uint8) {
	bnk.t.Helper()

	if got := bnk.Bus.Read8(addr); got != want {
		bnk.t.Errorf("Read8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func (bnk *testBank) wantPeek8(addr uint16, want uint8) {
	bnk.t.Helper()

	if got := bnk.Bus.Peek8(addr); got != want {
		bnk.t.Errorf("Peek8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func TestTableMem(t *testing.T) {
	bnk := newTestBank(t)

	bnk.wantRead8(0xC000, 0)
	bnk.Bus.Write8(0xC000, 0x12)
	bnk.wantRead8(0xC000, 0x12)
	bnk.wantRead8(0xD000, 0x12) // echo
}

func TestTableRegs(t *testing.T) {
	bnk := newTestBank(t)

	// Reg0: plain register with a reset value.
	bnk.wantRead8(0xFF40, 0x77)

	// Reg1: read callback + write mask.
	bnk.wantRead8(0xFF41, 0x9a)
	bnk.Bus.Write8(0xFF41, 0xff)
	bnk.wantRead8(0xFF41, 0xfa)
	bnk.Bus.Write8(0xFF41, 0xF0)
	bnk.wantRead8(0xFF41, 0xfa)
	bnk.Bus.Write8(0xFF41, 0x0F)
	bnk.wantRead8(0xFF41, 0x0A)

	// Reg2: readonly, peek callback.
	bnk.wantRead8(0xFF42, 0x00)
	bnk.wantPeek8(0xFF42, 0x12)
	bnk.Bus.Write8(0xFF42, 0x9b)
	bnk.wantRead8(0xFF42, 0x00)
	bnk.wantPeek8(0xFF42, 0x12)
}

func TestTableUnmapped(t *testing.T) {
	bnk := newTestBank(t)

	bnk.wantRead8(0x1234, 0xd3)
	bnk.wantPeek8(0x1234, 0xd4)
}

func TestTableMapMemorySlice(t *testing.T) {
	bnk := newTestBank(t)

	rom := make([]byte, 0x200)
	for i := range rom {
		rom[i] = 0x12
		if i&1 == 1 {
			rom[i] = 0x34
		}
	}
	bnk.Bus.MapMemorySlice(0x0000, 0x01FF, rom, true)

	bnk.wantRead8(0x0000, 0x12)
	bnk.wantRead8(0x0001, 0x34)
	bnk.wantRead8(0x01FF, 0x34)
	bnk.wantRead8(0x0200, 0xd3) // unmapped
}

func TestTableMapDevice(t *testing.T) {
	bnk := newTestBank(t)

	// Device without callbacks.
	bnk.Bus.Write8(0xA000, 0xff)
	bnk.wantRead8(0xA000, 0x00)
	bnk.wantPeek8(0xA000, 0x00)

	bnk.wantRead8(0xA100, 0xe1)
	bnk.wantPeek8(0xA100, 0x00)
	bnk.Bus.Write8(0xA120, 0x27)
	if bnk.devval != 0x20 {
		t.Errorf("devval = %02X, want 0x20", bnk.devval)
	}

	bnk.wantRead8(0xA200, 0xc5)
	bnk.wantPeek8(0xA200, 0xc8)
	bnk.Bus.Write8(0xA200, 0xff) // readonly
	if bnk.devval != 0x20 {
		t.Errorf("devval = %02X, want 0x20", bnk.devval)
	}

	bnk.wantRead8(0xA300, 0x00) // writeonly
	bnk.wantPeek8(0xA300, 0x00)
	bnk.Bus.Write8(0xA355, 0x0f)
	if bnk.devval != 0x50 {
		t.Errorf("devval = %02X, want 0x50", bnk.devval)
	}
}

func TestUnmapBank(t *testing.T) {
	t.Run("hwio.Mem", func(t *testing.T) {
		bnk := newTestBank(t)

		bnk.Bus.Write8(0xC040, 0x12)
		bnk.Bus.UnmapBank(0xC000, bnk, 0)
		bnk.wantRead8(0xC040, 0xd3) // openbus
		bnk.wantPeek8(0xC040, 0xd4)
	})
	t.Run("hwio.Reg8", func(t *testing.T) {
		bnk := newTestBank(t)

		bnk.wantRead8(0xFF41, 0x9a)
		bnk.Bus.UnmapBank(0xFF40, bnk, 1)
		bnk.wantRead8(0xFF41, 0xd3) // openbus
		bnk.wantPeek8(0xFF41, 0xd4)
	})
	t.Run("hwio.Device", func(t *testing.T) {
		bnk := newTestBank(t)

		bnk.wantRead8(0xA17F, 0xE1)
		bnk.Bus.UnmapBank(0xA000, bnk, 2)
		bnk.wantRead8(0xA17F, 0xd3) // openbus
		bnk.wantPeek8(0xA17F, 0xd4)
	})
}

func TestUnmap(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		bnk := newTestBank(t)

		bnk.Bus.Write8(0xC040, 0x12)
		bnk.wantRead8(0xC040, 0x12)
		bnk.Bus.Unmap(0xC000, 0xC03F)
		bnk.wantRead8(0xC000, 0xd3) // openbus
		bnk.wantRead8(0xC040, 0x12) // still mapped
	})
	t.Run("full", func(t *testing.T) {
		bnk := newTestBank(t)

		bnk.Bus.Write8(0xC040, 0x12)
		bnk.Bus.Unmap(0xC000, 0xDFFF)
		bnk.wantRead8(0xC040, 0xd3)
		bnk.wantRead8(0xFF40, 0x77) // regs untouched
	})
}
