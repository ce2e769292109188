package apu

type risingEdge struct {
	seen bool
}

func (r *risingEdge) atEdge(signal bool) bool {
	edge := signal && !r.seen
	r.seen = signal
	return edge
}

// divCounter is the frame sequencer: a counter advanced by falling edges of
// bit 4 of the shared divider register, from which the 256 Hz length, 64 Hz
// envelope and 128 Hz sweep pulses are derived.
type divCounter struct {
	last    uint8
	counter uint8

	length   risingEdge
	envelope risingEdge
	sweep    risingEdge
}

const divMask = 0x10

func (d *divCounter) clock(div uint8) {
	if ^div&d.last&divMask != 0 {
		d.counter++
	}
	d.last = div
}

func (d *divCounter) lengthClock() bool {
	return d.length.atEdge(d.counter&0x01 == 0)
}

func (d *divCounter) envelopeClock() bool {
	return d.envelope.atEdge(d.counter&0x07 == 0x07)
}

func (d *divCounter) sweepClock() bool {
	return d.sweep.atEdge(d.counter&0x03 == 0x02)
}
