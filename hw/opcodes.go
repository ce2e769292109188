package hw

// Instruction durations in M-cycles. Conditional branches carry the taken
// cost; the not-taken path overrides the count during execution. Undefined
// opcodes and the CB prefix hold placeholders.
var opCycles = [256]int{
	1, 3, 2, 2, 1, 1, 2, 1, 5, 2, 2, 2, 1, 1, 2, 1, // 0x00
	1, 3, 2, 2, 1, 1, 2, 1, 3, 2, 2, 2, 1, 1, 2, 1, // 0x10
	3, 3, 2, 2, 1, 1, 2, 1, 3, 2, 2, 2, 1, 1, 2, 1, // 0x20
	3, 3, 2, 2, 3, 3, 3, 1, 3, 2, 2, 2, 1, 1, 2, 1, // 0x30
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0x40
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0x50
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0x60
	2, 2, 2, 2, 2, 2, 1, 2, 1, 1, 1, 1, 1, 1, 2, 1, // 0x70
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0x80
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0x90
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0xA0
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, // 0xB0
	5, 3, 4, 4, 6, 4, 2, 4, 5, 4, 4, 1, 6, 6, 2, 4, // 0xC0
	5, 3, 4, 1, 6, 4, 2, 4, 5, 4, 4, 1, 6, 1, 2, 4, // 0xD0
	3, 3, 2, 1, 1, 4, 2, 4, 4, 1, 4, 1, 1, 1, 2, 4, // 0xE0
	3, 3, 2, 1, 1, 4, 2, 4, 3, 2, 4, 1, 1, 1, 2, 4, // 0xF0
}

// 8-bit operand by encoding index: B C D E H L (HL) A.
func (c *Cpu) getR(idx uint8) uint8 {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.HL())
	default:
		return c.A
	}
}

func (c *Cpu) setR(idx uint8, v uint8) {
	switch idx & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.HL(), v)
	default:
		c.A = v
	}
}

// 16-bit operand by encoding index: BC DE HL SP.
func (c *Cpu) getRR(idx uint8) uint16 {
	switch idx & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *Cpu) setRR(idx uint8, v uint16) {
	switch idx & 3 {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// Branch condition by encoding index: NZ Z NC C.
func (c *Cpu) cond(idx uint8) bool {
	switch idx & 3 {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

func (c *Cpu) alu(idx, v uint8) {
	switch idx & 7 {
	case 0:
		c.add(v, false)
	case 1:
		c.add(v, c.flag(flagC))
	case 2:
		c.A = c.sub(v, false)
	case 3:
		c.A = c.sub(v, c.flag(flagC))
	case 4:
		c.and(v)
	case 5:
		c.xor(v)
	case 6:
		c.or(v)
	default:
		c.sub(v, false) // CP: flags only
	}
}

func (c *Cpu) exec(op uint8) {
	switch {
	case op == 0x76:
		c.halted = true
	case op>>6 == 1:
		c.setR(op>>3&7, c.getR(op&7))
	case op>>6 == 2:
		c.alu(op>>3&7, c.getR(op&7))
	case op < 0x40:
		c.execMisc(op)
	default:
		c.execCtrl(op)
	}
}

func (c *Cpu) execMisc(op uint8) {
	switch op & 7 {
	case 0:
		switch op {
		case 0x00: // NOP
		case 0x08: // LD (a16),SP
			addr := c.fetch16()
			c.write8(addr, uint8(c.SP))
			c.write8(addr+1, uint8(c.SP>>8))
		case 0x10:
			c.stop()
		case 0x18:
			off := int8(c.fetch8())
			c.PC += uint16(int16(off))
		default: // JR cc,e8
			off := int8(c.fetch8())
			if c.cond(op >> 3 & 3) {
				c.PC += uint16(int16(off))
			} else {
				c.remaining = 2
			}
		}
	case 1:
		if op&8 == 0 { // LD rr,d16
			c.setRR(op>>4, c.fetch16())
		} else { // ADD HL,rr
			c.addHL(c.getRR(op >> 4))
		}
	case 2: // LD (rr),A / LD A,(rr) with BC, DE, HL+, HL-
		var addr uint16
		switch op >> 4 & 3 {
		case 0:
			addr = c.BC()
		case 1:
			addr = c.DE()
		case 2:
			addr = c.HL()
			c.SetHL(addr + 1)
		case 3:
			addr = c.HL()
			c.SetHL(addr - 1)
		}
		if op&8 == 0 {
			c.write8(addr, c.A)
		} else {
			c.A = c.read8(addr)
		}
	case 3: // INC rr / DEC rr
		rr := c.getRR(op >> 4)
		if op&8 == 0 {
			rr++
		} else {
			rr--
		}
		c.setRR(op>>4, rr)
	case 4:
		c.setR(op>>3, c.inc8(c.getR(op>>3)))
	case 5:
		c.setR(op>>3, c.dec8(c.getR(op>>3)))
	case 6:
		c.setR(op>>3, c.fetch8())
	default:
		switch op {
		case 0x07:
			c.A = c.rlc(c.A)
			c.setFlag(flagZ, false)
		case 0x0F:
			c.A = c.rrc(c.A)
			c.setFlag(flagZ, false)
		case 0x17:
			c.A = c.rl(c.A)
			c.setFlag(flagZ, false)
		case 0x1F:
			c.A = c.rr(c.A)
			c.setFlag(flagZ, false)
		case 0x27:
			c.daa()
		case 0x2F: // CPL
			c.A = ^c.A
			c.setFlag(flagN, true)
			c.setFlag(flagH, true)
		case 0x37: // SCF
			c.setFlag(flagN, false)
			c.setFlag(flagH, false)
			c.setFlag(flagC, true)
		case 0x3F: // CCF
			c.setFlag(flagN, false)
			c.setFlag(flagH, false)
			c.setFlag(flagC, !c.flag(flagC))
		}
	}
}

func (c *Cpu) execCtrl(op uint8) {
	switch op {
	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		if c.cond(op >> 3 & 3) {
			c.PC = c.pop16()
		} else {
			c.remaining = 2
		}
	case 0xC1, 0xD1, 0xE1: // POP rr
		c.setRR(op>>4&3, c.pop16())
	case 0xF1:
		c.SetAF(c.pop16())
	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		addr := c.fetch16()
		if c.cond(op >> 3 & 3) {
			c.PC = addr
		} else {
			c.remaining = 3
		}
	case 0xC3:
		c.PC = c.fetch16()
	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		addr := c.fetch16()
		if c.cond(op >> 3 & 3) {
			c.push16(c.PC)
			c.PC = addr
		} else {
			c.remaining = 3
		}
	case 0xC5, 0xD5, 0xE5: // PUSH rr
		c.push16(c.getRR(op >> 4 & 3))
	case 0xF5:
		c.push16(c.AF())
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE: // ALU A,d8
		c.alu(op>>3&7, c.fetch8())
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST
		c.push16(c.PC)
		c.PC = uint16(op & 0x38)
	case 0xC9:
		c.PC = c.pop16()
	case 0xCB:
		c.execCB()
	case 0xCD:
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.ime = true
	case 0xE0: // LDH (a8),A
		c.write8(0xFF00+uint16(c.fetch8()), c.A)
	case 0xE2: // LD (C),A
		c.write8(0xFF00+uint16(c.C), c.A)
	case 0xE8:
		c.SP = c.addSP(int8(c.fetch8()))
	case 0xE9:
		c.PC = c.HL()
	case 0xEA: // LD (a16),A
		c.write8(c.fetch16(), c.A)
	case 0xF0: // LDH A,(a8)
		c.A = c.read8(0xFF00 + uint16(c.fetch8()))
	case 0xF2: // LD A,(C)
		c.A = c.read8(0xFF00 + uint16(c.C))
	case 0xF3: // DI
		c.ime = false
		c.imeDelay = 0
	case 0xF8: // LD HL,SP+e8
		c.SetHL(c.addSP(int8(c.fetch8())))
	case 0xF9:
		c.SP = c.HL()
	case 0xFA: // LD A,(a16)
		c.A = c.read8(c.fetch16())
	case 0xFB: // EI
		c.imeDelay = 2
	default:
		c.fatal(op)
	}
}

func (c *Cpu) execCB() {
	op := c.fetch8()
	idx := op & 7
	c.remaining = 2
	if idx == 6 {
		if op>>6 == 1 {
			c.remaining = 3
		} else {
			c.remaining = 4
		}
	}

	v := c.getR(idx)
	bit := op >> 3 & 7
	switch op >> 6 {
	case 0:
		switch bit {
		case 0:
			v = c.rlc(v)
		case 1:
			v = c.rrc(v)
		case 2:
			v = c.rl(v)
		case 3:
			v = c.rr(v)
		case 4:
			v = c.sla(v)
		case 5:
			v = c.sra(v)
		case 6:
			v = c.swap(v)
		case 7:
			v = c.srl(v)
		}
		c.setR(idx, v)
	case 1: // BIT
		c.setFlag(flagZ, v>>bit&1 == 0)
		c.setFlag(flagN, false)
		c.setFlag(flagH, true)
	case 2: // RES
		c.setR(idx, v&^(1<<bit))
	case 3: // SET
		c.setR(idx, v|1<<bit)
	}
}

func (c *Cpu) stop() {
	if c.OnStop != nil && c.OnStop() {
		return
	}
	c.fatal(0x10)
}
