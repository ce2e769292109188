package gbrom

import (
	"fmt"

	"garnet/emu/log"
)

var modCart = log.ModCart

// MBC is the cartridge-side bank controller: it decodes accesses to the two
// cartridge windows of the address space. Low is 0x0000-0x7FFF (ROM), High is
// 0xA000-0xBFFF (external RAM or controller-specific registers).
type MBC interface {
	ReadLow(addr uint16) uint8
	WriteLow(addr uint16, val uint8)
	ReadHigh(addr uint16) uint8
	WriteHigh(addr uint16, val uint8)
}

// MBCDesc describes one bank controller variant. The set is closed: it is
// fixed by the hardware, variants are selected once at load time from the
// cartridge type header byte.
type MBCDesc struct {
	Name    string
	Battery bool // non-volatile RAM, exposed through Save/LoadSave
	Clock   bool // embedded real-time clock (MBC3 only)
	New     func(cart *Cart) MBC
}

var All = map[uint8]MBCDesc{
	0x00: {Name: "ROM", New: newSimple},
	0x01: {Name: "MBC1", New: newMBC1},
	0x02: {Name: "MBC1+RAM", New: newMBC1},
	0x03: {Name: "MBC1+RAM+BATTERY", Battery: true, New: newMBC1},
	0x05: {Name: "MBC2", New: newMBC2},
	0x06: {Name: "MBC2+BATTERY", Battery: true, New: newMBC2},
	0x08: {Name: "ROM+RAM", New: newSimple},
	0x09: {Name: "ROM+RAM+BATTERY", Battery: true, New: newSimple},
	0x0F: {Name: "MBC3+TIMER+BATTERY", Battery: true, Clock: true, New: newMBC3},
	0x10: {Name: "MBC3+TIMER+RAM+BATTERY", Battery: true, Clock: true, New: newMBC3},
	0x11: {Name: "MBC3", New: newMBC3},
	0x12: {Name: "MBC3+RAM", New: newMBC3},
	0x13: {Name: "MBC3+RAM+BATTERY", Battery: true, New: newMBC3},
}

// Cart is a loaded cartridge: the ROM image, the external RAM backing store
// and the bank controller decoding accesses to both.
type Cart struct {
	Rom  *Rom
	RAM  []byte
	desc MBCDesc
	mbc  MBC
}

func NewCart(rom *Rom) (*Cart, error) {
	desc, ok := All[rom.CartType()]
	if !ok {
		return nil, fmt.Errorf("%w: %#02x", ErrUnknownCartType, rom.CartType())
	}

	cart := &Cart{Rom: rom, desc: desc}
	cart.RAM = make([]byte, rom.RamSize())
	cart.mbc = desc.New(cart)

	modCart.InfoZ("loaded cartridge").
		String("title", rom.Title()).
		String("mbc", desc.Name).
		Int("rom", rom.RomSize()).
		Int("ram", len(cart.RAM)).
		Bool("cgb", rom.CGB()).
		End()
	return cart, nil
}

func (c *Cart) Desc() MBCDesc { return c.desc }

func (c *Cart) ReadLow(addr uint16) uint8        { return c.mbc.ReadLow(addr) }
func (c *Cart) WriteLow(addr uint16, val uint8)  { c.mbc.WriteLow(addr, val) }
func (c *Cart) ReadHigh(addr uint16) uint8       { return c.mbc.ReadHigh(addr) }
func (c *Cart) WriteHigh(addr uint16, val uint8) { c.mbc.WriteHigh(addr, val) }

// ramRead reads from external RAM honoring the pow2 size, 0xFF when absent.
func (c *Cart) ramRead(off int) uint8 {
	if len(c.RAM) == 0 {
		return 0xFF
	}
	return c.RAM[off&(len(c.RAM)-1)]
}

func (c *Cart) ramWrite(off int, val uint8) {
	if len(c.RAM) == 0 {
		return
	}
	c.RAM[off&(len(c.RAM)-1)] = val
}

// romRead reads from the ROM image honoring the pow2 size.
func (c *Cart) romRead(off int) uint8 {
	return c.Rom.Data[off&(len(c.Rom.Data)-1)]
}
