// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedStream is returned when the byte source runs out in the
	// middle of an instruction.
	ErrMalformedStream = errors.New("malformed instruction stream")
	// ErrMemoryFault is returned when the bus is accessed outside the
	// region it implements.
	ErrMemoryFault = errors.New("memory fault")
	// ErrUnsupportedOpcode is returned by Execute for opcodes that decode
	// fine but have no defined semantic.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
)

// MemoryFault describes a bus access outside the backed region.
type MemoryFault struct {
	Addr  uint16
	Write bool
}

func (e *MemoryFault) Error() string {
	dir := "read"
	if e.Write {
		dir = "write"
	}
	return fmt.Sprintf("memory fault: %s at %#06x", dir, e.Addr)
}

func (e *MemoryFault) Is(target error) bool {
	return target == ErrMemoryFault
}

// UnsupportedOpcodeError carries the unit that could not be executed.
type UnsupportedOpcodeError struct {
	Unit Unit
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode %#04x (%s)", e.Unit.Opcode, e.Unit)
}

func (e *UnsupportedOpcodeError) Is(target error) bool {
	return target == ErrUnsupportedOpcode
}
