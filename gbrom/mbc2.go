package gbrom

// mbc2 has a 4-bit ROM bank register and 512 half-bytes of built-in RAM
// (the upper nibble of each cell is open bus). Register selection uses
// address bit 8, not the address range.
type mbc2 struct {
	cart      *Cart
	ramEnable bool
	romBank   uint8 // 4 bits
}

func newMBC2(cart *Cart) MBC {
	// The header declares no RAM for MBC2: the 512 half-bytes are built into
	// the controller itself, and battery-backed on the 0x06 variant.
	cart.RAM = make([]byte, 512)
	return &mbc2{cart: cart}
}

func (m *mbc2) WriteLow(addr uint16, val uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x100 == 0 {
		m.ramEnable = val&0x0F == 0x0A
	} else {
		m.romBank = val & 0x0F
	}
}

func (m *mbc2) ReadLow(addr uint16) uint8 {
	var bank int
	if addr >= 0x4000 {
		bank = int(m.romBank)
		if bank == 0 {
			bank = 1
		}
	}
	return m.cart.romRead(bank<<14 | int(addr&0x3FFF))
}

func (m *mbc2) ReadHigh(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	return 0xF0 | m.cart.RAM[addr&0x1FF]&0x0F
}

func (m *mbc2) WriteHigh(addr uint16, val uint8) {
	if !m.ramEnable {
		return
	}
	m.cart.RAM[addr&0x1FF] = val & 0x0F
}
