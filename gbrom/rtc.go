package gbrom

import "time"

const (
	secsPerMin  = 60
	secsPerHour = 60 * 60
	secsPerDay  = 24 * 60 * 60

	// Day counter width is 9 bits; crossing 511 sets the carry flag.
	rtcDayRange = 512
)

// rtcClock models the MBC3 real-time clock. Elapsed time is anchored to a
// wall-clock base instant so the clock keeps advancing while the cartridge is
// not being emulated. Reads go through a latched snapshot, frozen by the
// latch sequence; the live counter is only touched by field writes, halt and
// day-overflow handling.
type rtcClock struct {
	base     time.Time
	haltedAt time.Time // zero while running
	carry    bool

	latched rtcRegs
}

type rtcRegs struct {
	sec, min, hour uint8
	days           uint16 // 9 bits
}

func newRTC() *rtcClock {
	return &rtcClock{base: time.Now()}
}

// now is the instant the counter is measured against: frozen while halted.
func (c *rtcClock) now() time.Time {
	if !c.haltedAt.IsZero() {
		return c.haltedAt
	}
	return time.Now()
}

func (c *rtcClock) elapsed() int64 {
	return int64(c.now().Sub(c.base) / time.Second)
}

func (c *rtcClock) setElapsed(secs int64) {
	c.base = c.now().Add(-time.Duration(secs) * time.Second)
}

// setUnit replaces one unit (seconds/minutes/hours/days) of the live counter,
// preserving every other unit.
func (c *rtcClock) setUnit(unitSecs, modulo, val int64) {
	el := c.elapsed()
	cur := (el / unitSecs) % modulo
	c.setElapsed(el + (val%modulo-cur)*unitSecs)
}

func (c *rtcClock) halted() bool { return !c.haltedAt.IsZero() }

func (c *rtcClock) halt() {
	if c.haltedAt.IsZero() {
		c.haltedAt = time.Now()
	}
}

func (c *rtcClock) resume() {
	if !c.haltedAt.IsZero() {
		c.base = c.base.Add(time.Since(c.haltedAt))
		c.haltedAt = time.Time{}
	}
}

// latch copies the live counter into the frozen snapshot exposed to reads.
// A day count past the 9-bit range sets the sticky carry flag and rebases
// the counter so a future overflow can be detected again.
func (c *rtcClock) latch() {
	el := c.elapsed()
	if el/secsPerDay >= rtcDayRange {
		c.carry = true
		c.base = c.base.Add(rtcDayRange * secsPerDay * time.Second)
		el -= rtcDayRange * secsPerDay
	}
	c.latched = rtcRegs{
		sec:  uint8(el % secsPerMin),
		min:  uint8((el / secsPerMin) % 60),
		hour: uint8((el / secsPerHour) % 24),
		days: uint16(el / secsPerDay),
	}
}

// MBC3 register indices selecting RTC fields through the RAM bank register.
const (
	rtcRegSec   = 0x08
	rtcRegMin   = 0x09
	rtcRegHour  = 0x0A
	rtcRegDay   = 0x0B
	rtcRegFlags = 0x0C
)

func (c *rtcClock) read(reg uint8) uint8 {
	switch reg {
	case rtcRegSec:
		return c.latched.sec
	case rtcRegMin:
		return c.latched.min
	case rtcRegHour:
		return c.latched.hour
	case rtcRegDay:
		return uint8(c.latched.days)
	case rtcRegFlags:
		val := uint8(c.latched.days>>8) & 1
		if c.halted() {
			val |= 1 << 6
		}
		if c.carry {
			val |= 1 << 7
		}
		return val
	}
	return 0xFF
}

func (c *rtcClock) write(reg, val uint8) {
	switch reg {
	case rtcRegSec:
		c.setUnit(1, secsPerMin, int64(val))
	case rtcRegMin:
		c.setUnit(secsPerMin, 60, int64(val))
	case rtcRegHour:
		c.setUnit(secsPerHour, 24, int64(val))
	case rtcRegDay:
		c.setUnit(secsPerDay, 256, int64(val))
	case rtcRegFlags:
		c.setUnit(secsPerDay*256, 2, int64(val&1))
		c.carry = val&(1<<7) != 0
		if val&(1<<6) != 0 {
			c.halt()
		} else {
			c.resume()
		}
	}
}
