// Package emu hosts the frontend side of the machine: the run loop, the
// audio resampler and the user configuration.
package emu

import (
	"github.com/arl/blip"

	"garnet/hw"
)

// The sound controller emits two stereo pairs per machine cycle, so the
// resampler input clock runs at twice the machine rate.
const (
	MachineRate = 1 << 20
	inputRate   = 2 * MachineRate
)

const DefaultSampleRate = 48000

// Resampler converts the raw stereo stream produced during a frame into
// band-limited samples at the host rate. Push samples through Sink, close
// the frame with EndFrame, then drain with ReadSamples.
type Resampler struct {
	left  *blip.Buffer
	right *blip.Buffer

	time      int
	prevLeft  int16
	prevRight int16

	sampleRate int
}

func NewResampler(sampleRate int) *Resampler {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	// Room for a whole frame plus slack for frames cut short by an LCD
	// enable edge landing unevenly across reads.
	persamples := sampleRate/30 + 2
	rs := &Resampler{
		left:       blip.NewBuffer(persamples),
		right:      blip.NewBuffer(persamples),
		sampleRate: sampleRate,
	}
	rs.left.SetRates(inputRate, float64(sampleRate))
	rs.right.SetRates(inputRate, float64(sampleRate))
	return rs
}

func (rs *Resampler) SampleRate() int { return rs.sampleRate }

// Sink returns the callback to hand to the machine for one frame.
func (rs *Resampler) Sink() hw.AudioSink {
	return func(pair [2]float32) {
		l := int16(pair[0] * 0x7000)
		r := int16(pair[1] * 0x7000)
		if l != rs.prevLeft {
			rs.left.AddDelta(uint64(rs.time), int32(l-rs.prevLeft))
			rs.prevLeft = l
		}
		if r != rs.prevRight {
			rs.right.AddDelta(uint64(rs.time), int32(r-rs.prevRight))
			rs.prevRight = r
		}
		rs.time++
	}
}

// EndFrame makes the samples accumulated since the previous call readable.
func (rs *Resampler) EndFrame() {
	rs.left.EndFrame(rs.time)
	rs.right.EndFrame(rs.time)
	rs.time = 0
}

// ReadSamples fills out with interleaved stereo samples and returns the
// number of sample pairs written. len(out) must be even.
func (rs *Resampler) ReadSamples(out []int16) int {
	n := rs.left.ReadSamples(out, len(out)/2, blip.Stereo)
	rs.right.ReadSamples(out[1:], n, blip.Stereo)
	return n
}

func (rs *Resampler) SamplesAvailable() int {
	return rs.left.SamplesAvailable()
}
