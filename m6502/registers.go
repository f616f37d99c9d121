// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import "fmt"

// Status register bits (NV-B DIZC).
const (
	FlagC = uint8(1 << 0) // Carry
	FlagZ = uint8(1 << 1) // Zero
	FlagI = uint8(1 << 2) // Interrupt disable
	FlagD = uint8(1 << 3) // Decimal
	FlagB = uint8(1 << 4) // Break
	FlagU = uint8(1 << 5) // Unused, reads as 1 on hardware
	FlagV = uint8(1 << 6) // Overflow
	FlagN = uint8(1 << 7) // Negative
)

// Flags is the processor status register, one field per bit.
type Flags struct {
	C bool
	Z bool
	I bool
	D bool
	B bool
	U bool
	V bool
	N bool
}

// Pack returns the status register as it is pushed on the stack.
func (f Flags) Pack() uint8 {
	res := uint8(0)
	for _, b := range [...]struct {
		set bool
		bit uint8
	}{
		{f.C, FlagC}, {f.Z, FlagZ}, {f.I, FlagI}, {f.D, FlagD},
		{f.B, FlagB}, {f.U, FlagU}, {f.V, FlagV}, {f.N, FlagN},
	} {
		if b.set {
			res |= b.bit
		}
	}
	return res
}

// UnpackFlags is the inverse of Flags.Pack.
func UnpackFlags(v uint8) Flags {
	return Flags{
		C: v&FlagC != 0,
		Z: v&FlagZ != 0,
		I: v&FlagI != 0,
		D: v&FlagD != 0,
		B: v&FlagB != 0,
		U: v&FlagU != 0,
		V: v&FlagV != 0,
		N: v&FlagN != 0,
	}
}

// setZN sets Z and N from v, clearing them when the condition does not hold.
func (f *Flags) setZN(v uint8) {
	f.Z = v == 0
	f.N = v&0x80 != 0
}

func (f Flags) String() string {
	const names = "CZIDBUVN"
	var buf [8]byte
	packed := f.Pack()
	for i := 0; i < 8; i++ {
		// Printed high bit first, like NV-BDIZC.
		bit := 7 - i
		if packed&(1<<bit) != 0 {
			buf[i] = names[bit]
		} else {
			buf[i] = '-'
		}
	}
	return string(buf[:])
}

// Registers is the register file of the processor.
type Registers struct {
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	S  uint8  // Stack pointer
	PC uint16 // Program counter
	P  Flags  // Processor status
}

// Reset returns the register file in its power-on state.
func Reset() Registers {
	return Registers{
		S: 0xfd,
		P: Flags{I: true, B: true, U: true},
	}
}

func (r Registers) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X", r.A, r.X, r.Y, r.P.Pack(), r.S, r.PC)
}

//==============================================================================
// Stack
//==============================================================================

// The stack lives in page 1 and grows downwards. S wraps around freely.

func (r *Registers) push(bus Bus, v uint8) error {
	if err := bus.Write(StackBase|uint16(r.S), v); err != nil {
		return err
	}
	r.S--
	return nil
}

func (r *Registers) pull(bus Bus) (uint8, error) {
	v, err := bus.Read(StackBase | uint16(r.S+1))
	if err != nil {
		return 0, err
	}
	r.S++
	return v, nil
}

func (r *Registers) pushW(bus Bus, v uint16) error {
	if err := r.push(bus, uint8(v>>8)); err != nil {
		return err
	}
	return r.push(bus, uint8(v))
}

func (r *Registers) pullW(bus Bus) (uint16, error) {
	lo, err := r.pull(bus)
	if err != nil {
		return 0, err
	}
	hi, err := r.pull(bus)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}
