package apu

// envelope is the volume envelope shared by the pulse and noise channels.
// Parameters are latched from the NRx2 register on trigger; a pace of zero
// disables the envelope.
type envelope struct {
	volume    uint8
	increase  bool
	pace      uint8
	countdown uint8
}

func (e *envelope) init(reg uint8) {
	e.volume = reg >> 4
	e.increase = reg&0x08 != 0
	e.pace = reg & 0x07
	e.countdown = e.pace
}

func (e *envelope) clock() {
	if e.pace == 0 {
		return
	}
	if e.countdown > 1 {
		e.countdown--
		return
	}
	if e.increase {
		if e.volume < 0x0F {
			e.volume++
		}
	} else if e.volume > 0 {
		e.volume--
	}
	e.countdown = e.pace
}
