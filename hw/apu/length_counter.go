package apu

// lengthTimer counts up to a per-channel maximum and silences the channel on
// reaching it. It only advances while the channel's length-enable bit is set.
type lengthTimer struct {
	timer int
	max   int
}

func (lt *lengthTimer) trigger(initial int) {
	lt.timer = initial
}

func (lt *lengthTimer) clock(lenEnabled bool, chEnabled *bool) {
	if !lenEnabled {
		return
	}
	if lt.timer >= lt.max {
		*chEnabled = false
	} else {
		lt.timer++
	}
}
