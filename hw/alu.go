package hw

const (
	flagZ uint8 = 0x80
	flagN uint8 = 0x40
	flagH uint8 = 0x20
	flagC uint8 = 0x10
)

func (c *Cpu) flag(f uint8) bool {
	return c.F&f != 0
}

func (c *Cpu) setFlag(f uint8, on bool) {
	if on {
		c.F |= f
	} else {
		c.F &^= f
	}
}

func (c *Cpu) setZNHC(z, n, h, cy bool) {
	c.F = 0
	if z {
		c.F |= flagZ
	}
	if n {
		c.F |= flagN
	}
	if h {
		c.F |= flagH
	}
	if cy {
		c.F |= flagC
	}
}

func (c *Cpu) add(v uint8, carry bool) {
	cy := uint16(0)
	if carry {
		cy = 1
	}
	sum := uint16(c.A) + uint16(v) + cy
	half := c.A&0x0F + v&0x0F + uint8(cy)
	c.setZNHC(uint8(sum) == 0, false, half > 0x0F, sum > 0xFF)
	c.A = uint8(sum)
}

func (c *Cpu) sub(v uint8, carry bool) uint8 {
	cy := uint16(0)
	if carry {
		cy = 1
	}
	diff := uint16(c.A) - uint16(v) - cy
	half := uint16(c.A&0x0F) - uint16(v&0x0F) - cy
	c.setZNHC(uint8(diff) == 0, true, half > 0x0F, diff > 0xFF)
	return uint8(diff)
}

func (c *Cpu) and(v uint8) {
	c.A &= v
	c.setZNHC(c.A == 0, false, true, false)
}

func (c *Cpu) xor(v uint8) {
	c.A ^= v
	c.setZNHC(c.A == 0, false, false, false)
}

func (c *Cpu) or(v uint8) {
	c.A |= v
	c.setZNHC(c.A == 0, false, false, false)
}

func (c *Cpu) inc8(v uint8) uint8 {
	v++
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, v&0x0F == 0)
	return v
}

func (c *Cpu) dec8(v uint8) uint8 {
	v--
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, v&0x0F == 0x0F)
	return v
}

func (c *Cpu) addHL(v uint16) {
	hl := c.HL()
	sum := uint32(hl) + uint32(v)
	c.setFlag(flagN, false)
	c.setFlag(flagH, hl&0x0FFF+v&0x0FFF > 0x0FFF)
	c.setFlag(flagC, sum > 0xFFFF)
	c.SetHL(uint16(sum))
}

// addSP computes SP+e8 for ADD SP,e8 and LD HL,SP+e8. Flags come from the
// unsigned add of the low byte.
func (c *Cpu) addSP(off int8) uint16 {
	v := uint16(int16(off))
	c.setZNHC(false, false,
		c.SP&0x0F+v&0x0F > 0x0F,
		c.SP&0xFF+v&0xFF > 0xFF)
	return c.SP + v
}

// daa adjusts A back to packed BCD after an addition or subtraction.
func (c *Cpu) daa() {
	var adj uint8
	carry := c.flag(flagC)
	if !c.flag(flagN) {
		if carry || c.A > 0x99 {
			adj = 0x60
			carry = true
		}
		if c.flag(flagH) || c.A&0x0F > 0x09 {
			adj |= 0x06
		}
		c.A += adj
	} else {
		if carry {
			adj = 0x60
		}
		if c.flag(flagH) {
			adj |= 0x06
		}
		c.A -= adj
	}
	c.setFlag(flagZ, c.A == 0)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}

func (c *Cpu) rlc(v uint8) uint8 {
	v = v<<1 | v>>7
	c.setZNHC(v == 0, false, false, v&1 != 0)
	return v
}

func (c *Cpu) rrc(v uint8) uint8 {
	cy := v & 1
	v = v>>1 | cy<<7
	c.setZNHC(v == 0, false, false, cy != 0)
	return v
}

func (c *Cpu) rl(v uint8) uint8 {
	cy := v >> 7
	v <<= 1
	if c.flag(flagC) {
		v |= 1
	}
	c.setZNHC(v == 0, false, false, cy != 0)
	return v
}

func (c *Cpu) rr(v uint8) uint8 {
	cy := v & 1
	v >>= 1
	if c.flag(flagC) {
		v |= 0x80
	}
	c.setZNHC(v == 0, false, false, cy != 0)
	return v
}

func (c *Cpu) sla(v uint8) uint8 {
	cy := v >> 7
	v <<= 1
	c.setZNHC(v == 0, false, false, cy != 0)
	return v
}

func (c *Cpu) sra(v uint8) uint8 {
	cy := v & 1
	v = v>>1 | v&0x80
	c.setZNHC(v == 0, false, false, cy != 0)
	return v
}

func (c *Cpu) swap(v uint8) uint8 {
	v = v<<4 | v>>4
	c.setZNHC(v == 0, false, false, false)
	return v
}

func (c *Cpu) srl(v uint8) uint8 {
	cy := v & 1
	v >>= 1
	c.setZNHC(v == 0, false, false, cy != 0)
	return v
}
