package hw

import (
	"garnet/emu/log"
	"garnet/hw/hwio"
)

// Cpu is the SM83 core. It is clocked in M-cycles: an instruction executes
// in full when fetched, then the core idles for the instruction's remaining
// cycles so that bus traffic from the other units interleaves correctly.
type Cpu struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16

	Bus  hwio.BankIO8
	Ints *IntCtrl

	// OnStop is invoked by the STOP instruction; it reports whether the
	// machine absorbed it (CGB speed switch). An unhandled STOP is fatal.
	OnStop func() bool

	halted    bool
	ime       bool
	imeDelay  int
	remaining int
}

func NewCpu(bus hwio.BankIO8, ints *IntCtrl) *Cpu {
	return &Cpu{Bus: bus, Ints: ints}
}

// Reset puts the core in the post-boot state expected by cartridge code
// when no boot ROM is installed.
func (c *Cpu) Reset(cgb bool) {
	c.A, c.F = 0x11, 0x80
	if !cgb {
		c.A, c.F = 0x01, 0xB0
	}
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.halted = false
	c.ime = false
	c.imeDelay = 0
	c.remaining = 0
}

func (c *Cpu) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *Cpu) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *Cpu) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *Cpu) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

func (c *Cpu) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *Cpu) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *Cpu) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// SetAF masks the low nibble of F, which does not exist in silicon.
func (c *Cpu) SetAF(v uint16) { c.A, c.F = uint8(v>>8), uint8(v)&0xF0 }

func (c *Cpu) read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *Cpu) write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *Cpu) fetch8() uint8 {
	v := c.read8(c.PC)
	c.PC++
	return v
}

func (c *Cpu) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Cpu) push16(v uint16) {
	c.SP--
	c.write8(c.SP, uint8(v>>8))
	c.SP--
	c.write8(c.SP, uint8(v))
}

func (c *Cpu) pop16() uint16 {
	lo := c.read8(c.SP)
	c.SP++
	hi := c.read8(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Tick advances the core by one M-cycle.
func (c *Cpu) Tick() {
	if c.remaining > 0 {
		c.remaining--
		return
	}

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}

	if c.Ints.Pending() {
		c.halted = false
		if c.ime {
			c.serviceInterrupt()
			c.remaining--
			return
		}
	}
	if c.halted {
		return
	}

	op := c.fetch8()
	c.remaining = opCycles[op]
	c.exec(op)
	c.remaining--
}

func (c *Cpu) serviceInterrupt() {
	bit := c.Ints.Pop()
	c.ime = false
	c.push16(c.PC)
	c.PC = 0x0040 + 8*uint16(bit)
	c.remaining = 5
	log.ModCPU.DebugZ("interrupt service").Hex16("vector", c.PC).End()
}

func (c *Cpu) fatal(op uint8) {
	log.ModCPU.FatalZ("unimplemented opcode").
		Hex8("op", op).
		Hex16("pc", c.PC-1).
		End()
}
