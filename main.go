package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	cli, cmd := parseArgs(os.Args[1:])

	switch {
	case strings.HasPrefix(cmd, "info"):
		infoMain(cli.Info)
	default:
		emuMain(cli.Run, LoadConfigOrDefault())
	}
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}
