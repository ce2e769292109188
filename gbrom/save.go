package gbrom

import (
	"fmt"
	"time"

	"github.com/go-faster/jx"
)

// Save is the non-volatile payload of a battery-backed cartridge: the raw
// external RAM plus, for clock-equipped carts, the RTC state. The anchor
// instants are absolute so elapsed time keeps accumulating across process
// restarts.
type Save struct {
	RAM []byte
	RTC *RTCSave
}

type RTCSave struct {
	BaseUnix   int64 // instant the live counter reads zero
	Halted     bool
	HaltedUnix int64 // instant the counter froze, when halted
	Carry      bool
}

// clocked is implemented by controllers carrying an RTC.
type clocked interface {
	clock() *rtcClock
}

func (m *mbc3) clock() *rtcClock { return m.rtc }

// Save returns the non-volatile payload, or nil for cartridge types without
// battery backing.
func (c *Cart) Save() *Save {
	if !c.desc.Battery {
		return nil
	}
	save := &Save{RAM: append([]byte(nil), c.RAM...)}

	if con, ok := c.mbc.(clocked); ok && con.clock() != nil {
		rtc := con.clock()
		save.RTC = &RTCSave{
			BaseUnix: rtc.base.Unix(),
			Halted:   rtc.halted(),
			Carry:    rtc.carry,
		}
		if rtc.halted() {
			save.RTC.HaltedUnix = rtc.haltedAt.Unix()
		}
	}
	return save
}

// LoadSave restores a previously saved payload.
func (c *Cart) LoadSave(save *Save) error {
	if len(save.RAM) != len(c.RAM) {
		return fmt.Errorf("save ram size mismatch: have %d, want %d", len(save.RAM), len(c.RAM))
	}
	copy(c.RAM, save.RAM)

	if save.RTC != nil {
		con, ok := c.mbc.(clocked)
		if !ok || con.clock() == nil {
			return fmt.Errorf("save has rtc state but cartridge has no clock")
		}
		rtc := con.clock()
		rtc.base = time.Unix(save.RTC.BaseUnix, 0)
		rtc.carry = save.RTC.Carry
		rtc.haltedAt = time.Time{}
		if save.RTC.Halted {
			rtc.haltedAt = time.Unix(save.RTC.HaltedUnix, 0)
		}
		rtc.latch()
	}
	return nil
}

// EncodeJSON serializes the payload. The on-disk format is owned by the
// frontend; this is the encoding it uses.
func (s *Save) EncodeJSON() []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("ram", func(e *jx.Encoder) { e.Base64(s.RAM) })
		if s.RTC != nil {
			e.Field("rtc", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					e.Field("base", func(e *jx.Encoder) { e.Int64(s.RTC.BaseUnix) })
					e.Field("halted", func(e *jx.Encoder) { e.Bool(s.RTC.Halted) })
					e.Field("halted_at", func(e *jx.Encoder) { e.Int64(s.RTC.HaltedUnix) })
					e.Field("carry", func(e *jx.Encoder) { e.Bool(s.RTC.Carry) })
				})
			})
		}
	})
	return e.Bytes()
}

// DecodeSaveJSON parses a payload produced by EncodeJSON.
func DecodeSaveJSON(data []byte) (*Save, error) {
	save := new(Save)
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "ram":
			ram, err := d.Base64()
			if err != nil {
				return err
			}
			save.RAM = ram
		case "rtc":
			rtc := new(RTCSave)
			err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "base":
					rtc.BaseUnix, err = d.Int64()
				case "halted":
					rtc.Halted, err = d.Bool()
				case "halted_at":
					rtc.HaltedUnix, err = d.Int64()
				case "carry":
					rtc.Carry, err = d.Bool()
				default:
					err = d.Skip()
				}
				return err
			})
			if err != nil {
				return err
			}
			save.RTC = rtc
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("malformed save: %w", err)
	}
	return save, nil
}
