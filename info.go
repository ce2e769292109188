package main

import (
	"fmt"
	"os"

	"garnet/gbrom"
)

func infoMain(args Info) {
	rom, err := gbrom.Open(args.RomPath)
	checkf(err, "failed to open rom")

	typename := fmt.Sprintf("unknown (0x%02X)", rom.CartType())
	battery := false
	if desc, ok := gbrom.All[rom.CartType()]; ok {
		typename = desc.Name
		battery = desc.Battery
	}

	mode := "classic"
	if rom.CGB() {
		mode = "color"
	}

	w := os.Stdout
	fmt.Fprintf(w, "title:     %s\n", rom.Title())
	fmt.Fprintf(w, "type:      %s\n", typename)
	fmt.Fprintf(w, "mode:      %s\n", mode)
	fmt.Fprintf(w, "rom size:  %d KiB\n", rom.RomSize()/1024)
	fmt.Fprintf(w, "ram size:  %d KiB\n", rom.RamSize()/1024)
	fmt.Fprintf(w, "battery:   %v\n", battery)
}
