package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// hwio struct tag grammar:
//
//	offset=0xNN    offset of the register within its bank (required)
//	bank=N         ordinal bank number (default 0)
//	size=0xNN      physical size (Mem, Device)
//	vsize=0xNN     virtual (mirrored) size (Mem, default = size)
//	rwmask=0xNN    bits writable from the bus (Reg8, default 0xFF)
//	reset=0xNN     value after InitRegs (Reg8)
//	rcb[=Name]     bind read callback (default method Read<FIELDNAME>)
//	wcb[=Name]     bind write callback (default method Write<FIELDNAME>)
//	pcb[=Name]     bind peek callback (default method Peek<FIELDNAME>)
//	readonly       reject bus writes
//	writeonly      reject bus reads
type tagOptions struct {
	hasOffset bool
	offset    uint16
	bank      int
	size      int
	vsize     int
	rwmask    uint8
	hasRwmask bool
	reset     uint8
	hasReset  bool
	rcb, wcb  string
	pcb       string
	hasRcb    bool
	hasWcb    bool
	hasPcb    bool
	readonly  bool
	writeonly bool
}

func parseTag(fieldName, tag string) (tagOptions, error) {
	opts := tagOptions{}
	for _, part := range strings.Split(tag, ",") {
		key, val, hasVal := strings.Cut(part, "=")
		parseInt := func() (uint64, error) {
			if !hasVal {
				return 0, fmt.Errorf("hwio tag option %q requires a value", key)
			}
			return strconv.ParseUint(val, 0, 32)
		}
		switch key {
		case "offset":
			n, err := parseInt()
			if err != nil {
				return opts, err
			}
			opts.offset = uint16(n)
			opts.hasOffset = true
		case "bank":
			n, err := parseInt()
			if err != nil {
				return opts, err
			}
			opts.bank = int(n)
		case "size":
			n, err := parseInt()
			if err != nil {
				return opts, err
			}
			opts.size = int(n)
		case "vsize":
			n, err := parseInt()
			if err != nil {
				return opts, err
			}
			opts.vsize = int(n)
		case "rwmask":
			n, err := parseInt()
			if err != nil {
				return opts, err
			}
			opts.rwmask = uint8(n)
			opts.hasRwmask = true
		case "reset":
			n, err := parseInt()
			if err != nil {
				return opts, err
			}
			opts.reset = uint8(n)
			opts.hasReset = true
		case "rcb":
			opts.hasRcb = true
			opts.rcb = val
			if !hasVal {
				opts.rcb = "Read" + strings.ToUpper(fieldName)
			}
		case "wcb":
			opts.hasWcb = true
			opts.wcb = val
			if !hasVal {
				opts.wcb = "Write" + strings.ToUpper(fieldName)
			}
		case "pcb":
			opts.hasPcb = true
			opts.pcb = val
			if !hasVal {
				opts.pcb = "Peek" + strings.ToUpper(fieldName)
			}
		case "readonly":
			opts.readonly = true
		case "writeonly":
			opts.writeonly = true
		case "":
		default:
			return opts, fmt.Errorf("unknown hwio tag option %q", key)
		}
	}
	return opts, nil
}

type bankReg struct {
	regPtr any
	offset uint16
}

// InitRegs initializes all the hwio-tagged fields of the structure pointed to
// by bank: names, reset values, write masks and callback bindings. Callbacks
// are methods of bank itself, looked up by name.
func InitRegs(bank any) error {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: not a pointer to struct: %T", bank)
	}

	strct := v.Elem()
	for i := 0; i < strct.NumField(); i++ {
		field := strct.Type().Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(field.Name, tag)
		if err != nil {
			return fmt.Errorf("hwio: field %s: %w", field.Name, err)
		}

		var flags RWFlags
		if opts.readonly {
			flags |= ReadOnlyFlag
		}
		if opts.writeonly {
			flags |= WriteOnlyFlag
		}

		switch reg := strct.Field(i).Addr().Interface().(type) {
		case *Reg8:
			reg.Name = field.Name
			reg.Flags = flags
			if opts.hasReset {
				reg.Value = opts.reset
			}
			if opts.hasRwmask {
				reg.RoMask = ^opts.rwmask
			}
			if opts.hasRcb {
				if err := bindMethod(v, opts.rcb, &reg.ReadCb); err != nil {
					return err
				}
			}
			if opts.hasPcb {
				if err := bindMethod(v, opts.pcb, &reg.PeekCb); err != nil {
					return err
				}
			}
			if opts.hasWcb {
				if err := bindMethod(v, opts.wcb, &reg.WriteCb); err != nil {
					return err
				}
			}
		case *Device:
			reg.Name = field.Name
			reg.Flags = flags
			if opts.size == 0 {
				return fmt.Errorf("hwio: device %s requires a size", field.Name)
			}
			reg.Size = opts.size
			if opts.hasRcb {
				if err := bindMethod(v, opts.rcb, &reg.ReadCb); err != nil {
					return err
				}
			}
			if opts.hasPcb {
				if err := bindMethod(v, opts.pcb, &reg.PeekCb); err != nil {
					return err
				}
			}
			if opts.hasWcb {
				if err := bindMethod(v, opts.wcb, &reg.WriteCb); err != nil {
					return err
				}
			}
		case *Mem:
			reg.Name = field.Name
			if opts.size == 0 && reg.Data == nil {
				return fmt.Errorf("hwio: mem %s requires a size", field.Name)
			}
			if reg.Data == nil {
				reg.Data = make([]byte, opts.size)
			}
			if opts.vsize != 0 {
				reg.VSize = opts.vsize
			} else if reg.VSize == 0 {
				reg.VSize = len(reg.Data)
			}
			if opts.readonly {
				reg.Flags |= MemFlag8ReadOnly
			}
			if opts.hasWcb {
				if err := bindMethod(v, opts.wcb, &reg.WriteCb); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("hwio: field %s has unsupported type %T", field.Name, reg)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error (a malformed tag is a
// programming mistake, not a runtime condition).
func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

func bindMethod[F any](bank reflect.Value, name string, dst *F) error {
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return fmt.Errorf("hwio: %s has no method %s", bank.Type(), name)
	}
	fn, ok := m.Interface().(F)
	if !ok {
		return fmt.Errorf("hwio: method %s has signature %s, want %T",
			name, m.Type(), *dst)
	}
	*dst = fn
	return nil
}

func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hwio: not a pointer to struct: %T", bank)
	}

	var regs []bankReg
	strct := v.Elem()
	for i := 0; i < strct.NumField(); i++ {
		field := strct.Type().Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(field.Name, tag)
		if err != nil {
			return nil, fmt.Errorf("hwio: field %s: %w", field.Name, err)
		}
		if !opts.hasOffset || opts.bank != bankNum {
			continue
		}
		switch reg := strct.Field(i).Addr().Interface().(type) {
		case *Reg8, *Device, *Mem:
			regs = append(regs, bankReg{regPtr: reg, offset: opts.offset})
		default:
			return nil, fmt.Errorf("hwio: field %s has unsupported type %T", field.Name, reg)
		}
	}
	return regs, nil
}
