// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause

// Package m6502 decodes and executes 6502 instructions as found in the NES
// 2A03: binary-mode arithmetic only, unofficial opcodes included.
package m6502

import "fmt"

// CPU ties a register file to a bus and counts cycles. It is not safe for
// concurrent use; each CPU is meant to be owned by a single goroutine.
type CPU struct {
	Regs   Registers
	Bus    Bus
	Cycles uint64

	// OnStep, if set, is called after every instruction that completed, with
	// the address it was fetched from.
	OnStep func(pc uint16, u Unit, cycles int)
}

func NewCPU(bus Bus) *CPU {
	return &CPU{Regs: Reset(), Bus: bus}
}

// Reset puts the registers back into their power-on state and clears the
// cycle counter. The bus is left alone.
func (c *CPU) Reset() {
	c.Regs = Reset()
	c.Cycles = 0
}

// ResetFromVector resets and then loads PC from the reset vector at 0xfffc.
func (c *CPU) ResetFromVector() error {
	c.Reset()
	pc, err := readMemW(c.Bus, ResetVector)
	if err != nil {
		return fmt.Errorf("reading reset vector: %w", err)
	}
	c.Regs.PC = pc
	return nil
}

// Fetch decodes the instruction at PC without executing it or moving PC.
func (c *CPU) Fetch() (Unit, error) {
	return Decode(&BusCursor{Bus: c.Bus, Addr: c.Regs.PC})
}

// Step fetches, decodes and executes the instruction at PC. When an error is
// returned, PC and the cycle counter are unchanged.
func (c *CPU) Step() (Unit, int, error) {
	cursor := BusCursor{Bus: c.Bus, Addr: c.Regs.PC}
	u, err := Decode(&cursor)
	if err != nil {
		return Unit{}, 0, fmt.Errorf("fetch at %#06x: %w", c.Regs.PC, err)
	}
	regs := c.Regs
	regs.PC = cursor.Addr
	cycles, err := Execute(u, &regs, c.Bus)
	if err != nil {
		return u, 0, fmt.Errorf("%#06x %s: %w", c.Regs.PC, u, err)
	}
	pc := c.Regs.PC
	c.Regs = regs
	c.Cycles += uint64(cycles)
	if c.OnStep != nil {
		c.OnStep(pc, u, cycles)
	}
	return u, cycles, nil
}

// StopReason tells why RunCycles returned.
type StopReason uint8

const (
	StopBudget     = StopReason(iota) // Cycle budget used up
	StopBreakpoint                    // Stop predicate returned true
	StopError                         // The CPU returned an error
)

func (r StopReason) String() string {
	switch r {
	case StopBudget:
		return "budget"
	case StopBreakpoint:
		return "breakpoint"
	case StopError:
		return "error"
	}
	return fmt.Sprintf("StopReason(%d)", uint8(r))
}

// RunCycles steps until at least budget cycles have elapsed, or until stop
// returns true after an instruction. stop may be nil. The instruction that
// crosses the budget runs to completion, so the result may overshoot it.
func (c *CPU) RunCycles(budget uint64, stop func(*CPU) (bool, error)) (uint64, StopReason, error) {
	start := c.Cycles
	for c.Cycles-start < budget {
		if _, _, err := c.Step(); err != nil {
			return c.Cycles - start, StopError, err
		}
		if stop == nil {
			continue
		}
		hit, err := stop(c)
		if err != nil {
			return c.Cycles - start, StopError, err
		}
		if hit {
			return c.Cycles - start, StopBreakpoint, nil
		}
	}
	return c.Cycles - start, StopBudget, nil
}
