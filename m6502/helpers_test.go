// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import (
	"testing"
)

// flatBus backs the whole 64K address space, so tests can touch vectors and
// addresses above the internal RAM.
type flatBus [0x10000]uint8

func (b *flatBus) Read(addr uint16) (uint8, error) {
	return b[addr], nil
}

func (b *flatBus) Write(addr uint16, v uint8) error {
	b[addr] = v
	return nil
}

func (b *flatBus) load(addr uint16, data ...uint8) {
	for i, v := range data {
		b[addr+uint16(i)] = v
	}
}

// exec decodes program, moves PC past it like a fetch would, and executes it.
func exec(t *testing.T, regs *Registers, bus Bus, program ...uint8) (Unit, int) {
	t.Helper()
	u, err := Decode(NewSliceCursor(program))
	if err != nil {
		t.Fatalf("decode % x: %v", program, err)
	}
	regs.PC += uint16(u.Size())
	cycles, err := Execute(u, regs, bus)
	if err != nil {
		t.Fatalf("execute %s: %v", u, err)
	}
	return u, cycles
}

type cpuTestRig struct {
	bus *flatBus
	cpu *CPU
}

func newCPUTestRig(start uint16, program ...uint8) *cpuTestRig {
	bus := &flatBus{}
	bus.load(start, program...)
	cpu := NewCPU(bus)
	cpu.Regs.PC = start
	return &cpuTestRig{bus: bus, cpu: cpu}
}

func (r *cpuTestRig) step(t *testing.T) (Unit, int) {
	t.Helper()
	u, cycles, err := r.cpu.Step()
	if err != nil {
		t.Fatalf("step at %#06x: %v", r.cpu.Regs.PC, err)
	}
	return u, cycles
}

func expectFlags(t *testing.T, name string, got Flags, z, n bool) {
	t.Helper()
	if got.Z != z || got.N != n {
		t.Errorf("%s: Z=%v N=%v, want Z=%v N=%v", name, got.Z, got.N, z, n)
	}
}
