package apu

type sweepAction int

const (
	sweepNothing sweepAction = iota
	sweepDisable
	sweepSet
)

// sweeper is channel 1's frequency sweep. Register layout (NR10): bits 0-2
// shift, bit 3 direction (set = increase), bits 4-6 pace.
type sweeper struct {
	count uint8
}

func (s *sweeper) trigger(reg uint8) {
	s.count = reg >> 4 & 7
}

// clock returns the candidate period and what to do with it. An increase
// past the 11-bit period range disables the channel.
func (s *sweeper) clock(reg uint8, period uint16) (uint16, sweepAction) {
	if s.count > 0 {
		s.count--
		return 0, sweepNothing
	}
	shift := reg & 7
	if shift == 0 {
		return 0, sweepNothing
	}
	offset := period >> shift
	if reg&0x08 == 0 {
		return period - offset, sweepSet
	}
	if period+offset > 0x7FF {
		return 0, sweepDisable
	}
	return period + offset, sweepSet
}
