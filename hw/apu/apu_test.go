package apu

import (
	"testing"

	"garnet/hw/hwio"
)

func newTestApu() (*Apu, *hwio.Table) {
	a := New()
	tbl := hwio.NewTable("aputest")
	a.MapInto(tbl)
	tbl.Write8(0xFF26, 0x80)
	return a, tbl
}

func TestLFSR(t *testing.T) {
	var l lfsr
	l.clock(false)
	if l.reg != 0x4000 {
		t.Errorf("reg = %#04x after clock, want 0x4000", l.reg)
	}
	l.clock(false)
	if l.reg != 0x6000 {
		t.Errorf("reg = %#04x after clock, want 0x6000", l.reg)
	}

	// Short mode mirrors the feedback into bit 7.
	l = lfsr{}
	l.clock(true)
	if l.reg != 0x4040 {
		t.Errorf("reg = %#04x in short mode, want 0x4040", l.reg)
	}
}

func TestLengthTimer(t *testing.T) {
	lt := lengthTimer{max: 0x40}
	lt.trigger(0x3E)
	enabled := true

	lt.clock(false, &enabled)
	if lt.timer != 0x3E {
		t.Errorf("timer advanced with length disabled")
	}

	lt.clock(true, &enabled)
	lt.clock(true, &enabled)
	if !enabled {
		t.Fatalf("channel silenced before the counter saturated")
	}
	lt.clock(true, &enabled)
	if enabled {
		t.Errorf("channel still on after the counter saturated")
	}
}

func TestEnvelope(t *testing.T) {
	var e envelope
	e.init(0xA3) // volume 10, decrease, pace 3
	if e.volume != 10 {
		t.Fatalf("volume = %d, want 10", e.volume)
	}

	e.clock()
	e.clock()
	if e.volume != 10 {
		t.Errorf("volume = %d before the pace elapsed, want 10", e.volume)
	}
	e.clock()
	if e.volume != 9 {
		t.Errorf("volume = %d after the pace elapsed, want 9", e.volume)
	}

	// Clamping at both ends.
	e.init(0x09) // volume 0, increase, pace 1
	for range 20 {
		e.clock()
	}
	if e.volume != 0x0F {
		t.Errorf("volume = %d, want saturation at 15", e.volume)
	}
	e.init(0x11) // volume 1, decrease, pace 1
	for range 20 {
		e.clock()
	}
	if e.volume != 0 {
		t.Errorf("volume = %d, want saturation at 0", e.volume)
	}

	// Pace 0 freezes the envelope.
	e.init(0x50)
	for range 20 {
		e.clock()
	}
	if e.volume != 5 {
		t.Errorf("volume = %d with pace 0, want 5", e.volume)
	}
}

func TestSweeper(t *testing.T) {
	var s sweeper

	// Pace 1, increase, shift 1.
	s.trigger(0x19)
	if _, action := s.clock(0x19, 0x400); action != sweepNothing {
		t.Errorf("action = %v while pace counts down, want nothing", action)
	}
	period, action := s.clock(0x19, 0x400)
	if action != sweepSet || period != 0x600 {
		t.Errorf("sweep = %v/%#04x, want set/0x600", action, period)
	}

	// Decrease direction.
	s = sweeper{}
	if period, action := s.clock(0x11, 0x400); action != sweepSet || period != 0x200 {
		t.Errorf("sweep = %v/%#04x, want set/0x200", action, period)
	}

	// Increase past the 11-bit range silences the channel.
	s = sweeper{}
	if _, action := s.clock(0x19, 0x7FF); action != sweepDisable {
		t.Errorf("action = %v on overflow, want disable", action)
	}

	// Shift 0 computes nothing.
	s = sweeper{}
	if _, action := s.clock(0x18, 0x7FF); action != sweepNothing {
		t.Errorf("action = %v with shift 0, want nothing", action)
	}
}

func TestDutySequences(t *testing.T) {
	want := [4][8]bool{
		{true, true, true, true, true, true, true, false},      // 12.5%
		{false, true, true, true, true, true, true, false},     // 25%
		{false, true, true, true, true, false, false, false},   // 50%
		{true, false, false, false, false, false, false, true}, // 75%
	}
	var sc squareChannel
	for duty := range 4 {
		sc.DUTY.Value = uint8(duty) << 6
		for step := range 8 {
			sc.dutyStep = uint8(step)
			if got := sc.dutyHigh(); got != want[duty][step] {
				t.Errorf("duty %d step %d = %v, want %v", duty, step, got, want[duty][step])
			}
		}
	}
}

func TestNoisePeriod(t *testing.T) {
	var nc noiseChannel
	nc.FREQ.Value = 0x00
	if got := nc.rawPeriod(); got != 2 {
		t.Errorf("rawPeriod() = %d, want 2", got)
	}
	nc.FREQ.Value = 0x23 // shift 2, divider 3
	if got := nc.rawPeriod(); got != 48 {
		t.Errorf("rawPeriod() = %d, want 48", got)
	}
}

func TestFrameSequencerRates(t *testing.T) {
	var d divCounter

	lengths, envelopes, sweeps := 0, 0, 0
	pulse := func(div uint8) {
		d.clock(div)
		if d.lengthClock() {
			lengths++
		}
		if d.envelopeClock() {
			envelopes++
		}
		if d.sweepClock() {
			sweeps++
		}
	}

	// 16 falling edges of DIV bit 4.
	for range 16 {
		pulse(divMask)
		pulse(0)
	}

	// Length fires every second count (plus the initial edge at zero),
	// sweep every fourth, envelope every eighth.
	if lengths != 9 {
		t.Errorf("length pulses = %d, want 9", lengths)
	}
	if sweeps != 4 {
		t.Errorf("sweep pulses = %d, want 4", sweeps)
	}
	if envelopes != 2 {
		t.Errorf("envelope pulses = %d, want 2", envelopes)
	}
}

func TestNR52ChannelBits(t *testing.T) {
	a, tbl := newTestApu()

	if got := tbl.Read8(0xFF26); got != 0xF0 {
		t.Fatalf("NR52 = %#02x with no channel running, want 0xF0", got)
	}

	tbl.Write8(0xFF12, 0xF0) // DAC on
	tbl.Write8(0xFF14, 0x80) // trigger
	a.Tick(0)
	if got := tbl.Read8(0xFF26); got != 0xF1 {
		t.Errorf("NR52 = %#02x after channel 1 trigger, want 0xF1", got)
	}

	// A DAC-off write kills the channel immediately.
	tbl.Write8(0xFF12, 0x00)
	if got := tbl.Read8(0xFF26); got != 0xF0 {
		t.Errorf("NR52 = %#02x after DAC off, want 0xF0", got)
	}
}

func TestSquareLengthExpiry(t *testing.T) {
	a, tbl := newTestApu()

	tbl.Write8(0xFF12, 0xF0)
	tbl.Write8(0xFF11, 0x3F) // initial length 63
	tbl.Write8(0xFF14, 0xC0) // trigger with length enabled

	// Two length pulses: one at the initial edge, one at the next even
	// count of the frame sequencer.
	a.Tick(0)
	for range 2 {
		a.Tick(divMask)
		a.Tick(0)
	}

	if a.Ch1.enabled {
		t.Errorf("channel 1 still running after its length expired")
	}
	if got := tbl.Read8(0xFF26); got != 0xF0 {
		t.Errorf("NR52 = %#02x, want 0xF0", got)
	}
}

func TestControllerOffClearsState(t *testing.T) {
	a, tbl := newTestApu()

	tbl.Write8(0xFF25, 0xFF)
	tbl.Write8(0xFF12, 0xF0)
	tbl.Write8(0xFF14, 0x80)
	a.Tick(0)

	tbl.Write8(0xFF26, 0x00)
	a.Tick(0)

	if got := tbl.Read8(0xFF25); got != 0 {
		t.Errorf("NR51 = %#02x after power off, want 0", got)
	}
	if a.Ch1.enabled {
		t.Errorf("channel 1 survived power off")
	}
	if got := tbl.Read8(0xFF26); got != 0x70 {
		t.Errorf("NR52 = %#02x while off, want 0x70", got)
	}
}

func TestWaveRAMPlaybackAccess(t *testing.T) {
	var wc waveChannel

	// Idle: plain addressing.
	wc.WriteWAVERAM(0xFF35, 0xAB)
	if got := wc.ram[5]; got != 0xAB {
		t.Fatalf("ram[5] = %#02x, want 0xAB", got)
	}

	// Running: accesses land on the byte being played.
	wc.ram[0] = 0xCD
	wc.enabled = true
	wc.index = 0
	if got := wc.ReadWAVERAM(0xFF35); got != 0xCD {
		t.Errorf("playback read = %#02x, want 0xCD (current byte)", got)
	}
}

func TestWaveSampleLevels(t *testing.T) {
	var wc waveChannel
	wc.enabled = true
	wc.ram[0] = 0x9C // steps 9 then 12

	tests := []struct {
		level uint8
		want  uint8
	}{
		{0x00, 0}, // mute
		{0x20, 9}, // full
		{0x40, 4}, // half
		{0x60, 2}, // quarter
	}
	for _, tt := range tests {
		wc.LEVEL.Value = tt.level
		got, _ := wc.sample()
		if got != tt.want {
			t.Errorf("level %#02x sample = %d, want %d", tt.level, got, tt.want)
		}
	}

	wc.index = 1
	wc.LEVEL.Value = 0x20
	if got, _ := wc.sample(); got != 12 {
		t.Errorf("second step sample = %d, want 12", got)
	}
}

func TestMixerPanning(t *testing.T) {
	a, tbl := newTestApu()

	tbl.Write8(0xFF24, 0x77) // full master volume
	tbl.Write8(0xFF25, 0x01) // channel 1 right only
	tbl.Write8(0xFF12, 0xF0)
	tbl.Write8(0xFF14, 0x80)

	pairs := a.Tick(0)
	left, right := pairs[0][0], pairs[0][1]
	if left != 0 {
		t.Errorf("left = %v with channel 1 panned right, want 0", left)
	}
	if right == 0 {
		t.Errorf("right = 0 with channel 1 running, want non-zero")
	}
}
