package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"garnet/emu"
	"garnet/emu/log"
	"garnet/gbrom"
	"garnet/hw"
)

const frameDuration = time.Duration(hw.CyclesPerFrame) * time.Second / emu.MachineRate

const autosavePeriod = 30 * time.Second

// emuMain runs the emulator with the given rom until interrupted or the
// requested frame count is reached.
func emuMain(args Run, cfg Config) {
	rom, err := gbrom.Open(args.RomPath)
	checkf(err, "failed to open rom")

	cart, err := gbrom.NewCart(rom)
	checkf(err, "unsupported cartridge")

	savePath := savePathFor(args.RomPath)
	loadSaveFile(cart, savePath)

	var boot []uint8
	if args.BootROM != "" {
		boot, err = os.ReadFile(args.BootROM)
		checkf(err, "failed to read boot rom")
	}

	gb := hw.NewGameBoy(cart, hw.Options{
		BootROM:      boot,
		ForceClassic: args.Classic,
	})

	sampleRate := cfg.Audio.SampleRate
	if args.SampleRate != 0 {
		sampleRate = args.SampleRate
	}
	rs := emu.NewResampler(sampleRate)

	var wav *wavWriter
	if args.Wav != nil {
		wav = newWavWriter(args.Wav, rs.SampleRate())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runLoop(ctx, gb, rs, wav, args.Frames)
	})
	g.Go(func() error {
		ticker := time.NewTicker(autosavePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				writeSaveFile(cart, savePath)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.ModEmu.ErrorZ("emulation stopped").Error("err", err).End()
	}

	writeSaveFile(cart, savePath)
	if wav != nil {
		checkf(wav.Close(), "failed to finalize wav recording")
	}
}

// runLoop paces the machine at its native frame rate, draining the audio
// resampler after every frame.
func runLoop(ctx context.Context, gb *hw.GameBoy, rs *emu.Resampler, wav *wavWriter, maxFrames int) error {
	fb := make([]uint8, hw.ScreenWidth*hw.ScreenHeight*4)
	samples := make([]int16, 2048)
	sink := rs.Sink()

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for frames := 0; maxFrames == 0 || frames < maxFrames; frames++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		gb.Execute(fb, sink)
		rs.EndFrame()

		for {
			n := rs.ReadSamples(samples)
			if n == 0 {
				break
			}
			if wav != nil {
				if err := wav.writeSamples(samples[:n*2]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func savePathFor(romPath string) string {
	return strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".sav"
}

func loadSaveFile(cart *gbrom.Cart, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	save, err := gbrom.DecodeSaveJSON(data)
	if err == nil {
		err = cart.LoadSave(save)
	}
	if err != nil {
		log.ModCart.WarnZ("ignoring save file").String("path", path).Error("err", err).End()
		return
	}
	log.ModCart.InfoZ("save file loaded").String("path", path).End()
}

func writeSaveFile(cart *gbrom.Cart, path string) {
	save := cart.Save()
	if save == nil {
		return
	}
	if err := os.WriteFile(path, save.EncodeJSON(), 0644); err != nil {
		log.ModCart.ErrorZ("failed to write save file").String("path", path).Error("err", err).End()
	}
}
