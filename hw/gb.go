package hw

import (
	"garnet/emu/log"
	"garnet/gbrom"
	"garnet/hw/apu"
	"garnet/hw/hwio"
)

// One frame is 154 scanlines of 114 M-cycles.
const CyclesPerFrame = 154 * 114

// AudioSink receives one stereo sample pair; Execute calls it twice per
// M-cycle.
type AudioSink func(frame [2]float32)

// openBus is what reads from unmapped addresses return.
type openBus struct{}

func (openBus) Read8(addr uint16) uint8      { return 0xFF }
func (openBus) Peek8(addr uint16) uint8      { return 0xFF }
func (openBus) Write8(addr uint16, val uint8) {}

// Options configures machine construction.
type Options struct {
	// BootROM is the optional boot ROM image. Without one the machine
	// starts directly in the post-boot state.
	BootROM []uint8

	// ForceClassic runs the cartridge in classic (non-color) mode even if
	// it advertises enhanced support.
	ForceClassic bool
}

// GameBoy owns one instance of every peripheral and drives them all from a
// single per-cycle loop.
type GameBoy struct {
	Bus    *hwio.Table
	Cpu    *Cpu
	Ints   *IntCtrl
	Timer  *Timer
	Joypad *Joypad
	Ppu    *Ppu
	Apu    *apu.Apu
	Dma    *DMACtrl
	Wram   *WorkRAM
	Cart   *gbrom.Cart

	// cartridge low window with the boot ROM overlay, and cartridge RAM
	ROMLO hwio.Device `hwio:"bank=0,offset=0x0000,size=0x8000,rcb,wcb,pcb"`
	SRAM  hwio.Device `hwio:"bank=0,offset=0xA000,size=0x2000,rcb,wcb,pcb"`

	SB   hwio.Reg8 `hwio:"bank=1,offset=0x01"`
	SC   hwio.Reg8 `hwio:"bank=1,offset=0x02"`
	KEY0 hwio.Reg8 `hwio:"bank=1,offset=0x4C"`
	KEY1 hwio.Reg8 `hwio:"bank=1,offset=0x4D,rwmask=0x01,rcb"`
	BANK hwio.Reg8 `hwio:"bank=1,offset=0x50,wcb"`

	bootROM    []uint8
	bootMapped bool
	cgb        bool
}

func NewGameBoy(cart *gbrom.Cart, opts Options) *GameBoy {
	gb := &GameBoy{
		Cart:    cart,
		bootROM: opts.BootROM,
	}
	hwio.MustInitRegs(gb)

	gb.cgb = cart.Rom.CGB() && !opts.ForceClassic
	gb.bootMapped = len(opts.BootROM) > 0

	gb.Bus = hwio.NewTable("gb")
	gb.Bus.Unmapped = openBus{}

	gb.Ints = NewIntCtrl()
	gb.Cpu = NewCpu(gb.Bus, gb.Ints)
	gb.Cpu.OnStop = gb.stop
	gb.Timer = NewTimer(gb.Ints)
	gb.Joypad = NewJoypad(gb.Ints)
	gb.Ppu = NewPpu(gb.Ints)
	gb.Apu = apu.New()
	gb.Dma = NewDMACtrl(gb.Bus)
	gb.Wram = NewWorkRAM()
	gb.Ppu.CGB = gb.cgb
	gb.Wram.CGB = gb.cgb

	gb.Bus.MapBank(0x0000, gb, 0)
	gb.Bus.MapBank(0x8000, gb.Ppu, 1)
	gb.Bus.MapBank(0xC000, gb.Wram, 0)
	gb.Bus.MapBank(0xFE00, gb.Ppu, 2)
	gb.Bus.MapBank(0xFEA0, NewProhibited(), 0)
	gb.Bus.MapBank(0xFF00, gb.Joypad, 0)
	gb.Bus.MapBank(0xFF00, gb.Timer, 0)
	gb.Bus.MapBank(0xFF00, gb.Ints, 0)
	gb.Apu.MapInto(gb.Bus)
	gb.Bus.MapBank(0xFF00, gb.Ppu, 0)
	gb.Bus.MapBank(0xFF00, gb.Dma, 0)
	gb.Bus.MapBank(0xFF00, gb, 1)
	gb.Bus.MapBank(0xFF00, gb.Wram, 1)
	gb.Bus.MapBank(0xFFFF, gb.Ints, 1)

	if !gb.bootMapped {
		gb.Cpu.Reset(gb.cgb)
		gb.resetIORegs()
	}

	log.ModEmu.InfoZ("machine ready").
		String("title", cart.Rom.Title()).
		String("mbc", cart.Desc().Name).
		Bool("cgb", gb.cgb).
		Bool("boot", gb.bootMapped).
		End()
	return gb
}

// resetIORegs applies the register values the boot code leaves behind, so
// cartridges started without a boot ROM image still find the display and
// sound controller switched on.
func (gb *GameBoy) resetIORegs() {
	gb.Bus.Write8(0xFF26, 0x80) // NR52
	gb.Bus.Write8(0xFF25, 0xF3) // NR51
	gb.Bus.Write8(0xFF24, 0x77) // NR50
	gb.Bus.Write8(0xFF47, 0xFC) // BGP
	gb.Bus.Write8(0xFF40, 0x91) // LCDC
	// consume the display-enable edge so the first frame runs in full
	gb.Ppu.TakeEnabledEdge()
}

// inBootRange reports whether addr is covered by the boot ROM overlay: the
// first page always, plus 0x0200-0x08FF for the larger enhanced-mode image.
func (gb *GameBoy) inBootRange(addr uint16) bool {
	if addr < 0x0100 {
		return true
	}
	return addr >= 0x0200 && addr < 0x0900 && len(gb.bootROM) >= 0x0900
}

func (gb *GameBoy) ReadROMLO(addr uint16) uint8 {
	if gb.bootMapped && gb.inBootRange(addr) && int(addr) < len(gb.bootROM) {
		return gb.bootROM[addr]
	}
	return gb.Cart.ReadLow(addr)
}

func (gb *GameBoy) PeekROMLO(addr uint16) uint8 { return gb.ReadROMLO(addr) }

func (gb *GameBoy) WriteROMLO(addr uint16, val uint8) {
	gb.Cart.WriteLow(addr, val)
}

func (gb *GameBoy) ReadSRAM(addr uint16) uint8 { return gb.Cart.ReadHigh(addr) }
func (gb *GameBoy) PeekSRAM(addr uint16) uint8 { return gb.Cart.ReadHigh(addr) }
func (gb *GameBoy) WriteSRAM(addr uint16, val uint8) {
	gb.Cart.WriteHigh(addr, val)
}

func (gb *GameBoy) ReadKEY1(val uint8) uint8 { return val | 0x7E }

// Writing the boot-disable register permanently unmaps the boot ROM and
// latches the operating mode chosen by the boot code through KEY0. Any
// written value triggers the latch.
func (gb *GameBoy) WriteBANK(_, val uint8) {
	if !gb.bootMapped {
		return
	}
	gb.bootMapped = false
	gb.setMode(gb.KEY0.Value != 0x04)
	log.ModEmu.InfoZ("boot rom unmapped").Bool("cgb", gb.cgb).End()
}

func (gb *GameBoy) setMode(cgb bool) {
	gb.cgb = cgb
	gb.Ppu.CGB = cgb
	gb.Wram.CGB = cgb
}

// CGB reports the current operating mode.
func (gb *GameBoy) CGB() bool { return gb.cgb }

// stop services the STOP instruction: with the speed-switch armed it flips
// the speed bit, otherwise the machine would enter low-power stop, which is
// not supported.
func (gb *GameBoy) stop() bool {
	if gb.KEY1.Value&0x01 == 0 {
		return false
	}
	gb.KEY1.Value ^= 0x81
	log.ModEmu.InfoZ("speed switch").Hex8("key1", gb.KEY1.Value).End()
	return true
}

// HandleJoypad feeds one host input event to the pad.
func (gb *GameBoy) HandleJoypad(b Button, pressed bool) {
	gb.Joypad.SetButton(b, pressed)
}

// Execute advances the machine by up to one frame, writing fb (160x144
// RGBA) and pushing two stereo pairs per cycle into sink. It returns the
// number of cycles actually run: a frame, or less when the display was
// switched on mid-frame, in which case fb is left uniformly white.
func (gb *GameBoy) Execute(fb []uint8, sink AudioSink) int {
	for cycle := 0; cycle < CyclesPerFrame; cycle++ {
		if !gb.Dma.StallCPU() {
			gb.Cpu.Tick()
		}
		gb.Ppu.Tick(fb)
		pairs := gb.Apu.Tick(gb.Timer.Divider())
		if sink != nil {
			sink(pairs[0])
			sink(pairs[1])
		}
		gb.Dma.Tick()
		gb.Timer.Tick()

		if gb.Ppu.TakeEnabledEdge() {
			WhiteFrame(fb)
			return cycle + 1
		}
	}
	return CyclesPerFrame
}
