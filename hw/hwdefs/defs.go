package hwdefs

import "strings"

// IntSource is an interrupt line, one bit per source, matching the layout of
// the IF/IE registers. Bit 0 has the highest service priority.
type IntSource uint8

const (
	VBlank IntSource = 1 << iota
	Stat
	Timer
	Serial
	Joypad

	numSources = 5
)

var intSrcNames = [numSources]string{
	"vblank",
	"stat",
	"timer",
	"serial",
	"joypad",
}

func (src IntSource) String() string {
	var names []string
	for i := range numSources {
		if src&(1<<i) != 0 {
			names = append(names, intSrcNames[i])
		}
	}
	return strings.Join(names, "|")
}

const NumAudioChannels = 4 // Pulse1, Pulse2, Wave, Noise
