// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

// Bus is the address space seen by the processor.
type Bus interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, v uint8) error
}

const (
	RAMSize = 0x0800 // Physical internal RAM
	RAMEnd  = 0x2000 // End of the mirrored RAM region (exclusive)

	StackBase   = 0x0100
	ResetVector = 0xfffc
	IRQVector   = 0xfffe
)

// RAM is the console's internal work RAM: 2KB mirrored four times over
// 0x0000-0x1fff. Everything above faults; routing those addresses to other
// devices is the caller's job.
type RAM struct {
	mem [RAMSize]uint8
}

func NewRAM() *RAM {
	return &RAM{}
}

// Backed reports whether addr falls into the mirrored RAM region.
func (r *RAM) Backed(addr uint16) bool {
	return addr < RAMEnd
}

func (r *RAM) Read(addr uint16) (uint8, error) {
	if !r.Backed(addr) {
		return 0, &MemoryFault{Addr: addr}
	}
	return r.mem[addr%RAMSize], nil
}

func (r *RAM) Write(addr uint16, v uint8) error {
	if !r.Backed(addr) {
		return &MemoryFault{Addr: addr, Write: true}
	}
	r.mem[addr%RAMSize] = v
	return nil
}

// Load copies data into RAM starting at addr. Mirroring applies.
func (r *RAM) Load(addr uint16, data []uint8) error {
	for i, v := range data {
		if err := r.Write(addr+uint16(i), v); err != nil {
			return err
		}
	}
	return nil
}

// Clear zeroes the whole RAM.
func (r *RAM) Clear() {
	r.mem = [RAMSize]uint8{}
}

func readMemW(bus Bus, addr uint16) (uint16, error) {
	lo, err := bus.Read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := bus.Read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// readMemWPageWrap reads a little-endian word whose high byte comes from the
// same page as the low byte. This is how JMP ($xxFF) behaves on hardware.
func readMemWPageWrap(bus Bus, addr uint16) (uint16, error) {
	lo, err := bus.Read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := bus.Read(addr&0xff00 | uint16(uint8(addr)+1))
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}
