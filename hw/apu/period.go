package apu

// periodDivider paces a channel's waveform: each clock decrements the
// divider, and on reaching zero it reloads from the channel's period formula
// and fires the waveform-advance callback.
type periodDivider struct {
	div uint16
}

func (p *periodDivider) trigger(period uint16) {
	p.div = period
}

func (p *periodDivider) clock(period uint16, wave func()) {
	p.div--
	if p.div == 0 {
		p.div = period
		wave()
	}
}

// negPeriod converts the 11-bit register value to the divider reload count
// (the register holds the negated period).
func negPeriod(raw uint16) uint16 {
	return (0x800 - raw) & 0x7FF
}
