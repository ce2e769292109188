// Package gbrom implements a reader for Game Boy cartridge images and the
// cartridge-side bank controller (MBC) logic.
package gbrom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrUnknownCartType = errors.New("unknown cartridge type")
	ErrUnknownRomSize  = errors.New("unknown rom size code")
	ErrUnknownRamSize  = errors.New("unknown ram size code")
	ErrLargeRom        = errors.New("rom image larger than declared size")
)

// Header field offsets.
const (
	offTitle    = 0x134
	offCGBFlag  = 0x143
	offCartType = 0x147
	offRomSize  = 0x148
	offRamSize  = 0x149
)

type Rom struct {
	header
	Data []byte // ROM image, zero-padded to the declared size
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}

	if len(buf) > rom.romsz {
		return 0, fmt.Errorf("%w: have %d, declared %d", ErrLargeRom, len(buf), rom.romsz)
	}
	// A smaller image is zero-padded up to the declared size.
	rom.Data = make([]byte, rom.romsz)
	copy(rom.Data, buf)

	return int64(len(buf)), nil
}

type header struct {
	raw   [0x150]byte
	romsz int
	ramsz int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < len(hdr.raw) {
		return fmt.Errorf("too small, needs %d bytes", len(hdr.raw))
	}
	copy(hdr.raw[:], p[:len(hdr.raw)])

	code := hdr.raw[offRomSize]
	if code > 0x08 {
		return fmt.Errorf("%w: %#02x", ErrUnknownRomSize, code)
	}
	hdr.romsz = 0x8000 << code

	switch hdr.raw[offRamSize] {
	case 0x00:
		hdr.ramsz = 0
	case 0x02:
		hdr.ramsz = 0x2000
	case 0x03:
		hdr.ramsz = 0x8000
	case 0x04:
		hdr.ramsz = 0x20000
	case 0x05:
		hdr.ramsz = 0x10000
	default:
		return fmt.Errorf("%w: %#02x", ErrUnknownRamSize, hdr.raw[offRamSize])
	}

	if _, ok := All[hdr.CartType()]; !ok {
		return fmt.Errorf("%w: %#02x", ErrUnknownCartType, hdr.CartType())
	}
	return nil
}

// Title returns the game title stored in the header.
func (hdr *header) Title() string {
	title := hdr.raw[offTitle:offCGBFlag]
	if i := strings.IndexByte(string(title), 0); i >= 0 {
		title = title[:i]
	}
	return strings.TrimRight(string(title), " ")
}

// CartType returns the cartridge type byte, which selects the bank
// controller variant.
func (hdr *header) CartType() uint8 {
	return hdr.raw[offCartType]
}

// CGB reports whether the cartridge requests enhanced (color) mode.
func (hdr *header) CGB() bool {
	return hdr.raw[offCGBFlag]&0x80 != 0
}

// RomSize is the declared ROM size in bytes.
func (hdr *header) RomSize() int { return hdr.romsz }

// RamSize is the declared cartridge RAM size in bytes.
func (hdr *header) RamSize() int { return hdr.ramsz }
