package gbrom

// No banking hardware at all: 32KB of ROM wired straight through, with
// optional external RAM.
type simple struct {
	cart *Cart
}

func newSimple(cart *Cart) MBC { return &simple{cart: cart} }

func (m *simple) ReadLow(addr uint16) uint8        { return m.cart.romRead(int(addr)) }
func (m *simple) WriteLow(addr uint16, val uint8)  {}
func (m *simple) ReadHigh(addr uint16) uint8       { return m.cart.ramRead(int(addr & 0x1FFF)) }
func (m *simple) WriteHigh(addr uint16, val uint8) { m.cart.ramWrite(int(addr&0x1FFF), val) }

// mbc1 supports up to 2MB of ROM (125 banks) and 32KB of RAM. The 2-bit
// secondary register banks either the upper ROM lines or the RAM, depending
// on the advanced-banking flag.
type mbc1 struct {
	cart      *Cart
	ramEnable bool
	romBank   uint8 // 5 bits
	ramBank   uint8 // 2 bits
	advanced  bool
}

func newMBC1(cart *Cart) MBC { return &mbc1{cart: cart} }

func (m *mbc1) WriteLow(addr uint16, val uint8) {
	switch (addr >> 13) & 3 {
	case 0:
		m.ramEnable = val&0x0F == 0x0A
	case 1:
		m.romBank = val & 0x1F
	case 2:
		m.ramBank = val & 0x03
	case 3:
		m.advanced = val&0x01 != 0
	}
}

func (m *mbc1) ReadLow(addr uint16) uint8 {
	var bank int
	if addr < 0x4000 {
		if m.advanced {
			bank = int(m.ramBank) << 5
		}
	} else {
		// Bank 0 aliases to 1: index 0 is never addressable here.
		rb := m.romBank
		if rb == 0 {
			rb = 1
		}
		bank = int(m.ramBank)<<5 | int(rb)
	}
	return m.cart.romRead(bank<<14 | int(addr&0x3FFF))
}

func (m *mbc1) ramOffset(addr uint16) int {
	off := int(addr & 0x1FFF)
	if m.advanced {
		off |= int(m.ramBank) << 13
	}
	return off
}

func (m *mbc1) ReadHigh(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	return m.cart.ramRead(m.ramOffset(addr))
}

func (m *mbc1) WriteHigh(addr uint16, val uint8) {
	if !m.ramEnable {
		return
	}
	m.cart.ramWrite(m.ramOffset(addr), val)
}
