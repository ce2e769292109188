package gbrom

// mbc3 supports up to 2MB of ROM (7-bit bank register), 32KB of RAM and an
// optional real-time clock. RTC fields appear as extra values of the RAM
// bank register, and reads go through a snapshot frozen by the latch
// sequence on a 0->1 write to the latch window.
type mbc3 struct {
	cart      *Cart
	rtc       *rtcClock // nil without the TIMER variant
	ramEnable bool
	romBank   uint8 // 7 bits
	ramBank   uint8 // 0-3 selects RAM, 0x08-0x0C selects an RTC field
	latchPrev uint8
}

func newMBC3(cart *Cart) MBC {
	m := &mbc3{cart: cart}
	if cart.desc.Clock {
		m.rtc = newRTC()
	}
	return m
}

func (m *mbc3) WriteLow(addr uint16, val uint8) {
	switch (addr >> 13) & 3 {
	case 0:
		m.ramEnable = val&0x0F == 0x0A
	case 1:
		m.romBank = val & 0x7F
	case 2:
		m.ramBank = val
	case 3:
		if m.rtc != nil && m.latchPrev == 0 && val&1 == 1 {
			m.rtc.latch()
		}
		m.latchPrev = val & 1
	}
}

func (m *mbc3) ReadLow(addr uint16) uint8 {
	var bank int
	if addr >= 0x4000 {
		bank = int(m.romBank)
		if bank == 0 {
			bank = 1
		}
	}
	return m.cart.romRead(bank<<14 | int(addr&0x3FFF))
}

func (m *mbc3) ReadHigh(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	switch {
	case m.ramBank <= 0x03:
		return m.cart.ramRead(int(m.ramBank)<<13 | int(addr&0x1FFF))
	case m.rtc != nil && m.ramBank >= rtcRegSec && m.ramBank <= rtcRegFlags:
		return m.rtc.read(m.ramBank)
	}
	return 0xFF
}

func (m *mbc3) WriteHigh(addr uint16, val uint8) {
	if !m.ramEnable {
		return
	}
	switch {
	case m.ramBank <= 0x03:
		m.cart.ramWrite(int(m.ramBank)<<13|int(addr&0x1FFF), val)
	case m.rtc != nil && m.ramBank >= rtcRegSec && m.ramBank <= rtcRegFlags:
		m.rtc.write(m.ramBank, val)
	}
}
