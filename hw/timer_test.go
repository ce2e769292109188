package hw

import "testing"

func TestTimerPeriod(t *testing.T) {
	// Frequency selection to TIMA period, in M-cycles.
	tests := []struct {
		tac    uint8
		period int
	}{
		{0x04, 256},
		{0x05, 4},
		{0x06, 16},
		{0x07, 64},
	}
	for _, tt := range tests {
		gb := testGB(t)
		gb.Bus.Write8(0xFF07, tt.tac)

		for i := 0; i < 10*tt.period; i++ {
			gb.Timer.Tick()
		}
		if got := gb.Bus.Read8(0xFF05); got != 10 {
			t.Errorf("TAC=%#02x: TIMA = %d after %d cycles, want 10",
				tt.tac, got, 10*tt.period)
		}
	}
}

func TestTimerDisabled(t *testing.T) {
	gb := testGB(t)
	gb.Bus.Write8(0xFF07, 0x01) // frequency set, enable bit clear

	for range 1000 {
		gb.Timer.Tick()
	}
	if got := gb.Bus.Read8(0xFF05); got != 0 {
		t.Errorf("TIMA = %d with timer disabled, want 0", got)
	}
}

func TestTimerOverflow(t *testing.T) {
	gb := testGB(t)
	gb.Bus.Write8(0xFF06, 0x23) // TMA
	gb.Bus.Write8(0xFF05, 0xFF)
	gb.Bus.Write8(0xFF07, 0x05)

	for range 4 {
		gb.Timer.Tick()
	}
	if got := gb.Bus.Read8(0xFF05); got != 0x23 {
		t.Errorf("TIMA = %#02x after overflow, want TMA (0x23)", got)
	}
	if gb.Ints.IF.Value&0x04 == 0 {
		t.Errorf("timer interrupt not requested on overflow")
	}
}

func TestDIVReadAndReset(t *testing.T) {
	gb := testGB(t)

	// DIV is the upper byte of the 4-cycle-per-tick counter.
	for range 64 {
		gb.Timer.Tick()
	}
	if got := gb.Bus.Read8(0xFF04); got != 1 {
		t.Errorf("DIV = %d, want 1", got)
	}

	gb.Bus.Write8(0xFF04, 0x55) // any write clears
	if got := gb.Bus.Read8(0xFF04); got != 0 {
		t.Errorf("DIV = %d after write, want 0", got)
	}
}

// Clearing the counter while the selected bit is high is itself a falling
// edge and increments TIMA.
func TestDIVResetGlitch(t *testing.T) {
	gb := testGB(t)
	gb.Bus.Write8(0xFF07, 0x05) // bit 3 of the internal counter

	gb.Timer.Tick()
	gb.Timer.Tick() // counter = 8
	gb.Bus.Write8(0xFF04, 0)
	if got := gb.Bus.Read8(0xFF05); got != 1 {
		t.Errorf("TIMA = %d after DIV reset, want 1", got)
	}
}
