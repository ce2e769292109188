package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"garnet/emu/log"
)

type (
	CLI struct {
		Run  Run  `cmd:"" help:"Run a ROM."`
		Info Info `cmd:"" help:"Show ROM header infos."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"ROM image to run." required:"true" type:"existingfile"`

		BootROM    string   `name:"bootrom" help:"Boot ROM image to run before the cartridge." type:"existingfile"`
		Classic    bool     `name:"classic" help:"${classic_help}"`
		SampleRate int      `name:"sample-rate" help:"Audio output sample rate." default:"0"`
		Wav        *outfile `name:"wav" help:"Record audio to a WAV file." placeholder:"FILE"`
		Frames     int      `name:"frames" help:"Stop after this many frames. 0 means run until interrupted." default:"0"`
	}

	Info struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}
)

var vars = kong.Vars{
	"classic_help": "Force classic (non-color) mode even for color-aware ROMs.",
	"log_help":     "Enable debug logging for specified modules.",
}

func parseArgs(args []string) (CLI, string) {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("garnet"),
		kong.Description("Game Boy Color emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")
	return cfg, ctx.Command()
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, "all" enables every module.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			lm = logModMask(log.ModuleMaskAll)
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	f    *os.File
	name string
}

// Decode opens the named file for writing.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)

	fd, err := os.Create(f.name)
	if err != nil {
		return err
	}
	f.f = fd
	return nil
}

func (f *outfile) Write(p []byte) (int, error) { return f.f.Write(p) }
func (f *outfile) Seek(off int64, whence int) (int64, error) {
	return f.f.Seek(off, whence)
}
func (f *outfile) Close() error { return f.f.Close() }

var _ io.WriteSeeker = (*outfile)(nil)
