package hwio

import (
	"unsafe"

	"garnet/emu/log"
)

// mem is the linear-access backend created from a Mem when it gets mapped.
//
// It is stored by pointer behind the BankIO8 interface held by Table: type
// checks against a concrete pointer type are cheaper than against a value
// type, and reads of WRAM and VRAM sit on the hot path.
type mem struct {
	ptr  unsafe.Pointer
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func newMem(buf []byte, wcb func(uint16, uint8), roflag MemFlags) *mem {
	if len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		ptr:  unsafe.Pointer(&buf[0]),
		mask: uint16(len(buf) - 1),
		wcb:  wcb,
		ro:   roflag,
	}
}

func (m *mem) Read8(addr uint16) uint8 {
	off := uintptr(addr & m.mask)
	return *(*uint8)(unsafe.Pointer(uintptr(m.ptr) + off))
}

func (m *mem) Peek8(addr uint16) uint8 {
	return m.Read8(addr)
}

func (m *mem) Write8(addr uint16, val uint8) {
	if m.wcb != nil {
		m.wcb(addr, val)
		return
	}

	switch m.ro {
	case MemFlagReadWrite:
		off := uintptr(addr & m.mask)
		*(*uint8)(unsafe.Pointer(uintptr(m.ptr) + off)) = val
	case MemFlag8ReadOnly:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	case MemFlagNoROLog:
		return
	}
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // writes are rejected
	MemFlagNoROLog                          // rejected writes are dropped silently
)

// Mem is a linear memory area that can be mapped into a Table. A VSize larger
// than len(Data) mirrors the buffer across the mapped window, which is how
// the work RAM echo region is expressed.
//
// Mem does not implement BankIO8 itself: parsing the flags on every access
// would be wasteful, so mapping calls BankIO8 once to build an adaptor
// matching the configuration.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // backing buffer, length must be a power of two
	VSize   int                 // virtual size of the mapped window
	Flags   MemFlags            // access restrictions
	WriteCb func(uint16, uint8) // when set, called instead of storing the byte
}

func (m *Mem) BankIO8() BankIO8 {
	return newMem(m.Data, m.WriteCb, m.Flags)
}
