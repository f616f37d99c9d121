// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import (
	"errors"
	"testing"
)

//==============================================================================
// Flags
//==============================================================================

func TestLoadSetsAndClearsFlags(t *testing.T) {
	loads := []struct {
		name   string
		opcode uint8
		reg    func(r *Registers) uint8
	}{
		{"LDA", 0xa9, func(r *Registers) uint8 { return r.A }},
		{"LDX", 0xa2, func(r *Registers) uint8 { return r.X }},
		{"LDY", 0xa0, func(r *Registers) uint8 { return r.Y }},
	}
	bus := &flatBus{}
	for _, ld := range loads {
		for i := 0; i < 256; i++ {
			v := uint8(i)
			for _, stale := range []bool{false, true} {
				r := Reset()
				r.P.Z, r.P.N = stale, stale
				_, cycles := exec(t, &r, bus, ld.opcode, v)
				if got := ld.reg(&r); got != v {
					t.Fatalf("%s #%#02x: register = %#02x", ld.name, v, got)
				}
				expectFlags(t, ld.name, r.P, v == 0, v&0x80 != 0)
				if cycles != 2 {
					t.Errorf("%s: %d cycles, want 2", ld.name, cycles)
				}
			}
		}
	}
}

func TestADCAllInputs(t *testing.T) {
	bus := &flatBus{}
	for a := 0; a < 256; a++ {
		for v := 0; v < 256; v++ {
			for _, carry := range []bool{false, true} {
				ci := 0
				if carry {
					ci = 1
				}
				r := Reset()
				r.A = uint8(a)
				r.P.C = carry
				r.P.D = a&1 == 1 // Decimal mode must not change the result
				exec(t, &r, bus, 0x69, uint8(v))

				sum := a + v + ci
				signed := int(int8(a)) + int(int8(v)) + ci
				if r.A != uint8(sum) {
					t.Fatalf("%#02x+%#02x+%d: A=%#02x", a, v, ci, r.A)
				}
				if r.P.C != (sum > 0xff) {
					t.Fatalf("%#02x+%#02x+%d: C=%v", a, v, ci, r.P.C)
				}
				if r.P.V != (signed < -128 || signed > 127) {
					t.Fatalf("%#02x+%#02x+%d: V=%v", a, v, ci, r.P.V)
				}
				if r.P.Z != (uint8(sum) == 0) || r.P.N != (sum&0x80 != 0) {
					t.Fatalf("%#02x+%#02x+%d: Z=%v N=%v", a, v, ci, r.P.Z, r.P.N)
				}
			}
		}
	}
}

func TestSBCAllInputs(t *testing.T) {
	bus := &flatBus{}
	for a := 0; a < 256; a++ {
		for v := 0; v < 256; v++ {
			for _, carry := range []bool{false, true} {
				borrow := 1
				if carry {
					borrow = 0
				}
				r := Reset()
				r.A = uint8(a)
				r.P.C = carry
				exec(t, &r, bus, 0xe9, uint8(v))

				diff := a - v - borrow
				signed := int(int8(a)) - int(int8(v)) - borrow
				if r.A != uint8(diff) {
					t.Fatalf("%#02x-%#02x-%d: A=%#02x", a, v, borrow, r.A)
				}
				if r.P.C != (diff >= 0) {
					t.Fatalf("%#02x-%#02x-%d: C=%v", a, v, borrow, r.P.C)
				}
				if r.P.V != (signed < -128 || signed > 127) {
					t.Fatalf("%#02x-%#02x-%d: V=%v", a, v, borrow, r.P.V)
				}
				expectFlags(t, "SBC", r.P, uint8(diff) == 0, uint8(diff)&0x80 != 0)
			}
		}
	}
}

func TestLogicalOps(t *testing.T) {
	bus := &flatBus{}
	ops := []struct {
		name   string
		opcode uint8
		fn     func(a, v uint8) uint8
	}{
		{"AND", 0x29, func(a, v uint8) uint8 { return a & v }},
		{"EOR", 0x49, func(a, v uint8) uint8 { return a ^ v }},
		{"ORA", 0x09, func(a, v uint8) uint8 { return a | v }},
	}
	for _, op := range ops {
		for a := 0; a < 256; a++ {
			for v := 0; v < 256; v++ {
				r := Reset()
				r.A = uint8(a)
				r.P.Z, r.P.N = true, true
				exec(t, &r, bus, op.opcode, uint8(v))
				want := op.fn(uint8(a), uint8(v))
				if r.A != want {
					t.Fatalf("%s %#02x,%#02x = %#02x, want %#02x", op.name, a, v, r.A, want)
				}
				expectFlags(t, op.name, r.P, want == 0, want&0x80 != 0)
			}
		}
	}
}

func TestBIT(t *testing.T) {
	bus := &flatBus{}
	bus[0x10] = 0xc0
	r := Reset()
	r.A = 0x3f
	exec(t, &r, bus, 0x24, 0x10)
	if !r.P.Z || !r.P.V || !r.P.N {
		t.Errorf("BIT: flags %v", r.P)
	}
	if r.A != 0x3f {
		t.Errorf("BIT changed A")
	}
	bus[0x10] = 0x01
	r.A = 0x01
	exec(t, &r, bus, 0x24, 0x10)
	if r.P.Z || r.P.V || r.P.N {
		t.Errorf("BIT: flags %v not cleared", r.P)
	}
}

func TestCompare(t *testing.T) {
	bus := &flatBus{}
	compares := []struct {
		name   string
		opcode uint8
		set    func(r *Registers, v uint8)
	}{
		{"CMP", 0xc9, func(r *Registers, v uint8) { r.A = v }},
		{"CPX", 0xe0, func(r *Registers, v uint8) { r.X = v }},
		{"CPY", 0xc0, func(r *Registers, v uint8) { r.Y = v }},
	}
	for _, c := range compares {
		for reg := 0; reg < 256; reg++ {
			for v := 0; v < 256; v++ {
				r := Reset()
				c.set(&r, uint8(reg))
				r.P.Z, r.P.N = reg != v, (uint8(reg)-uint8(v))&0x80 == 0
				before := r
				exec(t, &r, bus, c.opcode, uint8(v))
				diff := uint8(reg) - uint8(v)
				if r.P.C != (reg >= v) {
					t.Fatalf("%s %#02x,%#02x: C=%v", c.name, reg, v, r.P.C)
				}
				expectFlags(t, c.name, r.P, reg == v, diff&0x80 != 0)
				if r.A != before.A || r.X != before.X || r.Y != before.Y {
					t.Fatalf("%s modified a register", c.name)
				}
			}
		}
	}

	// Register below the operand wraps, it does not fault.
	r := Reset()
	r.A = 0x10
	exec(t, &r, bus, 0xc9, 0x20)
	if r.P.C || r.P.Z || !r.P.N {
		t.Errorf("CMP 0x10 vs 0x20: flags %v", r.P)
	}
}

//==============================================================================
// Increments, decrements, shifts
//==============================================================================

func TestIncDecWrap(t *testing.T) {
	bus := &flatBus{}
	r := Reset()

	bus[0x10] = 0x00
	_, cycles := exec(t, &r, bus, 0xc6, 0x10) // DEC $10
	if bus[0x10] != 0xff || r.P.Z || !r.P.N || cycles != 5 {
		t.Errorf("DEC 0x00: mem=%#02x flags=%v cycles=%d", bus[0x10], r.P, cycles)
	}
	_, cycles = exec(t, &r, bus, 0xee, 0x10, 0x00) // INC $0010
	if bus[0x10] != 0x00 || !r.P.Z || r.P.N || cycles != 6 {
		t.Errorf("INC 0xff: mem=%#02x flags=%v cycles=%d", bus[0x10], r.P, cycles)
	}

	r.X = 0xff
	exec(t, &r, bus, 0xe8) // INX
	if r.X != 0 || !r.P.Z {
		t.Errorf("INX 0xff: X=%#02x flags=%v", r.X, r.P)
	}
	exec(t, &r, bus, 0xca) // DEX
	if r.X != 0xff || r.P.Z || !r.P.N {
		t.Errorf("DEX 0x00: X=%#02x flags=%v", r.X, r.P)
	}
	r.Y = 0x7f
	exec(t, &r, bus, 0xc8) // INY
	if r.Y != 0x80 || !r.P.N {
		t.Errorf("INY 0x7f: Y=%#02x flags=%v", r.Y, r.P)
	}
	exec(t, &r, bus, 0x88) // DEY
	if r.Y != 0x7f || r.P.N || r.P.Z {
		t.Errorf("DEY 0x80: Y=%#02x flags=%v", r.Y, r.P)
	}
}

func TestIncDecAllValues(t *testing.T) {
	ops := []struct {
		name    string
		program []uint8
		delta   uint8
		get     func(r *Registers, bus *flatBus) uint8
		set     func(r *Registers, bus *flatBus, v uint8)
	}{
		{"INC", []uint8{0xe6, 0x10}, 1,
			func(r *Registers, bus *flatBus) uint8 { return bus[0x10] },
			func(r *Registers, bus *flatBus, v uint8) { bus[0x10] = v }},
		{"DEC", []uint8{0xc6, 0x10}, 0xff,
			func(r *Registers, bus *flatBus) uint8 { return bus[0x10] },
			func(r *Registers, bus *flatBus, v uint8) { bus[0x10] = v }},
		{"INX", []uint8{0xe8}, 1,
			func(r *Registers, bus *flatBus) uint8 { return r.X },
			func(r *Registers, bus *flatBus, v uint8) { r.X = v }},
		{"DEX", []uint8{0xca}, 0xff,
			func(r *Registers, bus *flatBus) uint8 { return r.X },
			func(r *Registers, bus *flatBus, v uint8) { r.X = v }},
		{"INY", []uint8{0xc8}, 1,
			func(r *Registers, bus *flatBus) uint8 { return r.Y },
			func(r *Registers, bus *flatBus, v uint8) { r.Y = v }},
		{"DEY", []uint8{0x88}, 0xff,
			func(r *Registers, bus *flatBus) uint8 { return r.Y },
			func(r *Registers, bus *flatBus, v uint8) { r.Y = v }},
	}
	bus := &flatBus{}
	for _, op := range ops {
		for v := 0; v < 256; v++ {
			r := Reset()
			op.set(&r, bus, uint8(v))
			want := uint8(v) + op.delta
			// Stale flags opposite to the expected result.
			r.P.Z, r.P.N = want != 0, want&0x80 == 0
			exec(t, &r, bus, op.program...)
			if got := op.get(&r, bus); got != want {
				t.Fatalf("%s %#02x = %#02x, want %#02x", op.name, v, got, want)
			}
			expectFlags(t, op.name, r.P, want == 0, want&0x80 != 0)
		}
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		a       uint8
		carry   bool
		wantA   uint8
		wantC   bool
		wantZ   bool
		wantN   bool
	}{
		{"ASL A", []uint8{0x0a}, 0x81, false, 0x02, true, false, false},
		{"ASL A to zero", []uint8{0x0a}, 0x80, false, 0x00, true, true, false},
		{"LSR A", []uint8{0x4a}, 0x03, true, 0x01, true, false, false},
		{"ROL A carry in", []uint8{0x2a}, 0x80, true, 0x01, true, false, false},
		{"ROL A", []uint8{0x2a}, 0x40, false, 0x80, false, false, true},
		{"ROR A carry in", []uint8{0x6a}, 0x01, true, 0x80, true, false, true},
		{"ROR A to zero", []uint8{0x6a}, 0x01, false, 0x00, true, true, false},
	}
	bus := &flatBus{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reset()
			r.A = tt.a
			r.P.C = tt.carry
			_, cycles := exec(t, &r, bus, tt.program...)
			if r.A != tt.wantA || r.P.C != tt.wantC {
				t.Errorf("A=%#02x C=%v, want A=%#02x C=%v", r.A, r.P.C, tt.wantA, tt.wantC)
			}
			expectFlags(t, tt.name, r.P, tt.wantZ, tt.wantN)
			if cycles != 2 {
				t.Errorf("%d cycles, want 2", cycles)
			}
		})
	}
}

func TestShiftMemory(t *testing.T) {
	bus := &flatBus{}
	bus[0x0234] = 0x41
	r := Reset()
	r.X = 0x04
	_, cycles := exec(t, &r, bus, 0x1e, 0x30, 0x02) // ASL $0230,X
	if bus[0x0234] != 0x82 || r.P.C || !r.P.N {
		t.Errorf("ASL mem: %#02x flags=%v", bus[0x0234], r.P)
	}
	if cycles != 7 {
		t.Errorf("ASL abs,X: %d cycles, want 7", cycles)
	}
	if r.A != 0 {
		t.Errorf("ASL mem touched A")
	}
}

//==============================================================================
// Addressing
//==============================================================================

func TestZeroPageIndexWraps(t *testing.T) {
	bus := &flatBus{}
	bus[0x0001] = 0x77
	bus[0x0101] = 0x99
	r := Reset()
	r.X = 2
	exec(t, &r, bus, 0xb5, 0xff) // LDA $FF,X
	if r.A != 0x77 {
		t.Errorf("LDA $FF,X with X=2 read %#02x, want 0x77 from $01", r.A)
	}

	r.Y = 2
	exec(t, &r, bus, 0xb6, 0xff) // LDX $FF,Y
	if r.X != 0x77 {
		t.Errorf("LDX $FF,Y read %#02x", r.X)
	}

	op, _ := ZeroPageX{0xff}.resolve(&Registers{X: 2}, bus)
	if op.addr != 0x0001 {
		t.Errorf("resolved %#04x, want 0x0001", op.addr)
	}
}

func TestIndexedIndirect(t *testing.T) {
	bus := &flatBus{}
	// Pointer at $FF/$00 after wrapping.
	bus[0x00ff] = 0x34
	bus[0x0000] = 0x12
	bus[0x1234] = 0xab
	r := Reset()
	r.X = 0x0f
	_, cycles := exec(t, &r, bus, 0xa1, 0xf0) // LDA ($F0,X)
	if r.A != 0xab {
		t.Errorf("LDA ($F0,X) = %#02x, want 0xab", r.A)
	}
	if cycles != 6 {
		t.Errorf("%d cycles, want 6", cycles)
	}
}

func TestIndirectIndexed(t *testing.T) {
	bus := &flatBus{}
	bus[0x0010] = 0xff
	bus[0x0011] = 0x20
	bus[0x2100] = 0x5a
	bus[0x2080] = 0xa5

	tests := []struct {
		name    string
		program []uint8
		y       uint8
		cycles  int
	}{
		{"LDA no cross", []uint8{0xb1, 0x10}, 0x00, 5},
		{"LDA cross", []uint8{0xb1, 0x10}, 0x01, 6},
		{"STA no cross", []uint8{0x91, 0x10}, 0x00, 6},
		{"STA cross", []uint8{0x91, 0x10}, 0x01, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reset()
			r.Y = tt.y
			_, cycles := exec(t, &r, bus, tt.program...)
			if cycles != tt.cycles {
				t.Errorf("%d cycles, want %d", cycles, tt.cycles)
			}
		})
	}

	// The STA rows above stored A over the data.
	bus[0x2100] = 0x5a
	r := Reset()
	r.Y = 1
	exec(t, &r, bus, 0xb1, 0x10)
	if r.A != 0x5a {
		t.Errorf("LDA ($10),Y = %#02x, want 0x5a", r.A)
	}

	// The pointer itself wraps within page 0.
	bus[0x00ff] = 0x80
	bus[0x0000] = 0x20
	r = Reset()
	exec(t, &r, bus, 0xb1, 0xff)
	if r.A != 0xa5 {
		t.Errorf("LDA ($FF),Y = %#02x, want 0xa5", r.A)
	}
}

func TestAbsoluteIndexedPageCross(t *testing.T) {
	bus := &flatBus{}
	tests := []struct {
		name    string
		program []uint8
		x       uint8
		cycles  int
	}{
		{"LDA abs,X no cross", []uint8{0xbd, 0xff, 0x20}, 0, 4},
		{"LDA abs,X cross", []uint8{0xbd, 0xff, 0x20}, 1, 5},
		{"STA abs,X no cross", []uint8{0x9d, 0xff, 0x20}, 0, 5},
		{"STA abs,X cross", []uint8{0x9d, 0xff, 0x20}, 1, 5},
		{"CMP abs,X cross", []uint8{0xdd, 0xff, 0x20}, 1, 5},
		{"ADC abs,X cross", []uint8{0x7d, 0xff, 0x20}, 1, 5},
		{"LDY abs,X cross", []uint8{0xbc, 0xff, 0x20}, 1, 5},
		{"INC abs,X no cross", []uint8{0xfe, 0xff, 0x20}, 0, 7},
		{"INC abs,X cross", []uint8{0xfe, 0xff, 0x20}, 1, 7},
		{"NOP abs,X cross", []uint8{0x1c, 0xff, 0x20}, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reset()
			r.X = tt.x
			_, cycles := exec(t, &r, bus, tt.program...)
			if cycles != tt.cycles {
				t.Errorf("%d cycles, want %d", cycles, tt.cycles)
			}
		})
	}

	// STA at the crossing address lands on the next page.
	r := Reset()
	r.A = 0x42
	r.Y = 1
	exec(t, &r, bus, 0x99, 0xff, 0x20) // STA $20FF,Y
	if bus[0x2100] != 0x42 {
		t.Errorf("STA $20FF,Y wrote to the wrong address")
	}
}

//==============================================================================
// Control flow
//==============================================================================

func TestJMPIndirectPageWrap(t *testing.T) {
	bus := &flatBus{}
	bus[0x30ff] = 0x80
	bus[0x3000] = 0x50
	bus[0x3100] = 0x40
	r := Reset()
	_, cycles := exec(t, &r, bus, 0x6c, 0xff, 0x30)
	if r.PC != 0x5080 {
		t.Errorf("JMP ($30FF) went to %#04x, want 0x5080", r.PC)
	}
	if cycles != 5 {
		t.Errorf("%d cycles, want 5", cycles)
	}
}

func TestJMPAbsolute(t *testing.T) {
	bus := &flatBus{}
	r := Reset()
	_, cycles := exec(t, &r, bus, 0x4c, 0x00, 0x80)
	if r.PC != 0x8000 || cycles != 3 {
		t.Errorf("PC=%#04x cycles=%d", r.PC, cycles)
	}
}

func TestBranchCycles(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		offset uint8
		zero   bool
		wantPC uint16
		cycles int
	}{
		{"not taken", 0x0600, 0x04, true, 0x0602, 2},
		{"taken", 0x0600, 0x04, false, 0x0606, 3},
		{"taken backward", 0x0610, 0xf0, false, 0x0602, 3},
		{"taken across page", 0x06f0, 0x20, false, 0x0712, 4},
		{"taken backward across page", 0x0600, 0xfc, false, 0x05fe, 4},
	}
	bus := &flatBus{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reset()
			r.PC = tt.pc
			r.P.Z = tt.zero
			u, cycles := exec(t, &r, bus, 0xd0, tt.offset) // BNE
			if u.Cycles() != 2 {
				t.Errorf("base cost %d, want 2", u.Cycles())
			}
			if r.PC != tt.wantPC {
				t.Errorf("PC=%#04x, want %#04x", r.PC, tt.wantPC)
			}
			if cycles != tt.cycles {
				t.Errorf("%d cycles, want %d", cycles, tt.cycles)
			}
		})
	}
}

func TestBranchConditions(t *testing.T) {
	tests := []struct {
		opcode uint8
		set    func(p *Flags)
	}{
		{0x90, func(p *Flags) { p.C = false }}, // BCC
		{0xb0, func(p *Flags) { p.C = true }},  // BCS
		{0xf0, func(p *Flags) { p.Z = true }},  // BEQ
		{0xd0, func(p *Flags) { p.Z = false }}, // BNE
		{0x30, func(p *Flags) { p.N = true }},  // BMI
		{0x10, func(p *Flags) { p.N = false }}, // BPL
		{0x70, func(p *Flags) { p.V = true }},  // BVS
		{0x50, func(p *Flags) { p.V = false }}, // BVC
	}
	bus := &flatBus{}
	for _, tt := range tests {
		r := Reset()
		r.PC = 0x0600
		// Start with the condition false.
		r.P = UnpackFlags(0xff)
		if tt.opcode == 0xb0 || tt.opcode == 0xf0 || tt.opcode == 0x30 || tt.opcode == 0x70 {
			r.P = UnpackFlags(0x00)
		}
		before := r
		exec(t, &before, bus, tt.opcode, 0x10)
		if before.PC != 0x0602 {
			t.Errorf("%#02x: taken when condition false", tt.opcode)
		}
		tt.set(&r.P)
		exec(t, &r, bus, tt.opcode, 0x10)
		if r.PC != 0x0612 {
			t.Errorf("%#02x: not taken when condition true", tt.opcode)
		}
	}
}

func TestJSRAndRTS(t *testing.T) {
	rig := newCPUTestRig(0x0600, 0x20, 0x10, 0x06) // JSR $0610
	rig.bus[0x0610] = 0x60                         // RTS

	_, cycles := rig.step(t)
	if rig.cpu.Regs.PC != 0x0610 || cycles != 6 {
		t.Fatalf("after JSR: PC=%#04x cycles=%d", rig.cpu.Regs.PC, cycles)
	}
	// PC-1 = 0x0602, high byte first.
	if rig.bus[0x01fd] != 0x06 || rig.bus[0x01fc] != 0x02 || rig.cpu.Regs.S != 0xfb {
		t.Errorf("stack after JSR: %#02x %#02x S=%#02x", rig.bus[0x01fd], rig.bus[0x01fc], rig.cpu.Regs.S)
	}

	_, cycles = rig.step(t)
	if rig.cpu.Regs.PC != 0x0603 || cycles != 6 {
		t.Errorf("after RTS: PC=%#04x cycles=%d, want 0x0603", rig.cpu.Regs.PC, cycles)
	}
	if rig.cpu.Regs.S != 0xfd {
		t.Errorf("S=%#02x after RTS", rig.cpu.Regs.S)
	}
}

func TestBRKAndRTI(t *testing.T) {
	rig := newCPUTestRig(0x0600, 0x00, 0xff) // BRK + padding
	rig.bus.load(IRQVector, 0x00, 0x90)
	rig.bus[0x9000] = 0x40 // RTI
	rig.cpu.Regs.P = Flags{C: true, U: true}

	_, cycles := rig.step(t)
	regs := rig.cpu.Regs
	if regs.PC != 0x9000 || cycles != 7 {
		t.Fatalf("after BRK: PC=%#04x cycles=%d", regs.PC, cycles)
	}
	if !regs.P.I {
		t.Errorf("BRK did not set I")
	}
	if rig.bus[0x01fd] != 0x06 || rig.bus[0x01fc] != 0x02 {
		t.Errorf("return address %#02x%02x, want 0x0602", rig.bus[0x01fd], rig.bus[0x01fc])
	}
	if rig.bus[0x01fb] != FlagC|FlagB|FlagU {
		t.Errorf("pushed status %#02x", rig.bus[0x01fb])
	}

	_, cycles = rig.step(t)
	regs = rig.cpu.Regs
	if regs.PC != 0x0602 || cycles != 6 {
		t.Errorf("after RTI: PC=%#04x cycles=%d", regs.PC, cycles)
	}
	if regs.P != (Flags{C: true, B: true, U: true}) || regs.S != 0xfd {
		t.Errorf("after RTI: P=%v S=%#02x", regs.P, regs.S)
	}
}

func TestBRKWithoutVectorFaults(t *testing.T) {
	ram := NewRAM()
	cpu := NewCPU(ram)
	cpu.Regs.PC = 0x0200
	before := cpu.Regs
	_, _, err := cpu.Step()
	if !errors.Is(err, ErrMemoryFault) {
		t.Fatalf("got %v, want memory fault", err)
	}
	if cpu.Regs != before {
		t.Errorf("registers changed on fault")
	}
	if v, _ := ram.Read(0x01fd); v != 0 {
		t.Errorf("stack written before the fault")
	}
}

//==============================================================================
// Flags, stack and transfers
//==============================================================================

func TestFlagInstructions(t *testing.T) {
	tests := []struct {
		opcode uint8
		get    func(p Flags) bool
		want   bool
	}{
		{0x18, func(p Flags) bool { return p.C }, false}, // CLC
		{0x38, func(p Flags) bool { return p.C }, true},  // SEC
		{0xd8, func(p Flags) bool { return p.D }, false}, // CLD
		{0xf8, func(p Flags) bool { return p.D }, true},  // SED
		{0x58, func(p Flags) bool { return p.I }, false}, // CLI
		{0x78, func(p Flags) bool { return p.I }, true},  // SEI
		{0xb8, func(p Flags) bool { return p.V }, false}, // CLV
	}
	bus := &flatBus{}
	for _, tt := range tests {
		for _, start := range []uint8{0x00, 0xff} {
			r := Reset()
			r.P = UnpackFlags(start)
			_, cycles := exec(t, &r, bus, tt.opcode)
			if tt.get(r.P) != tt.want {
				t.Errorf("%#02x from %#02x: flag %v", tt.opcode, start, tt.get(r.P))
			}
			// Nothing else moved.
			other := r.P.Pack() ^ start
			if other&(other-1) != 0 {
				t.Errorf("%#02x changed more than one flag: %#02x", tt.opcode, other)
			}
			if cycles != 2 {
				t.Errorf("%#02x: %d cycles", tt.opcode, cycles)
			}
		}
	}
}

func TestTransfers(t *testing.T) {
	bus := &flatBus{}
	r := Reset()
	r.A = 0x80
	exec(t, &r, bus, 0xaa) // TAX
	if r.X != 0x80 || !r.P.N {
		t.Errorf("TAX: X=%#02x P=%v", r.X, r.P)
	}
	r.A = 0x00
	exec(t, &r, bus, 0xa8) // TAY
	if r.Y != 0 || !r.P.Z || r.P.N {
		t.Errorf("TAY: Y=%#02x P=%v", r.Y, r.P)
	}
	exec(t, &r, bus, 0x8a) // TXA
	if r.A != 0x80 || !r.P.N || r.P.Z {
		t.Errorf("TXA: A=%#02x P=%v", r.A, r.P)
	}
	r.Y = 0x01
	exec(t, &r, bus, 0x98) // TYA
	if r.A != 0x01 || r.P.N || r.P.Z {
		t.Errorf("TYA: A=%#02x P=%v", r.A, r.P)
	}

	// TXS leaves the flags alone, TSX does not.
	r.X = 0x00
	flags := r.P
	exec(t, &r, bus, 0x9a) // TXS
	if r.S != 0x00 || r.P != flags {
		t.Errorf("TXS: S=%#02x P=%v", r.S, r.P)
	}
	r.S = 0xf0
	exec(t, &r, bus, 0xba) // TSX
	if r.X != 0xf0 || !r.P.N {
		t.Errorf("TSX: X=%#02x P=%v", r.X, r.P)
	}
}

func TestPushPull(t *testing.T) {
	bus := &flatBus{}
	r := Reset()
	r.A = 0x00
	_, cycles := exec(t, &r, bus, 0x48) // PHA
	if bus[0x01fd] != 0x00 || r.S != 0xfc || cycles != 3 {
		t.Errorf("PHA: mem=%#02x S=%#02x cycles=%d", bus[0x01fd], r.S, cycles)
	}
	r.A = 0x55
	r.P.Z = false
	_, cycles = exec(t, &r, bus, 0x68) // PLA
	if r.A != 0x00 || !r.P.Z || r.S != 0xfd || cycles != 4 {
		t.Errorf("PLA: A=%#02x P=%v S=%#02x cycles=%d", r.A, r.P, r.S, cycles)
	}

	r.P = UnpackFlags(0xc3)
	exec(t, &r, bus, 0x08) // PHP
	if bus[0x01fd] != 0xc3 {
		t.Errorf("PHP pushed %#02x", bus[0x01fd])
	}
	r.P = Flags{}
	exec(t, &r, bus, 0x28) // PLP
	if r.P.Pack() != 0xc3 {
		t.Errorf("PLP restored %#02x", r.P.Pack())
	}
}

func TestStoreLeavesFlags(t *testing.T) {
	bus := &flatBus{}
	r := Reset()
	r.A, r.X, r.Y = 0x00, 0x80, 0x01
	flags := r.P
	exec(t, &r, bus, 0x85, 0x10)       // STA $10
	exec(t, &r, bus, 0x86, 0x11)       // STX $11
	exec(t, &r, bus, 0x8c, 0x12, 0x00) // STY $0012
	if bus[0x10] != 0x00 || bus[0x11] != 0x80 || bus[0x12] != 0x01 {
		t.Errorf("stores wrote %#02x %#02x %#02x", bus[0x10], bus[0x11], bus[0x12])
	}
	if r.P != flags {
		t.Errorf("stores changed flags to %v", r.P)
	}
}

//==============================================================================
// Unofficial opcodes
//==============================================================================

func TestUnofficialOpcodes(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *Registers, bus *flatBus)
		program []uint8
		check   func(r *Registers, bus *flatBus) bool
		cycles  int
	}{
		{
			"LAX zp",
			func(r *Registers, bus *flatBus) { bus[0x10] = 0x85 },
			[]uint8{0xa7, 0x10},
			func(r *Registers, bus *flatBus) bool { return r.A == 0x85 && r.X == 0x85 && r.P.N && !r.P.Z },
			3,
		},
		{
			"LAX immediate",
			nil,
			[]uint8{0xab, 0x00},
			func(r *Registers, bus *flatBus) bool { return r.A == 0 && r.X == 0 && r.P.Z },
			2,
		},
		{
			"SAX zp",
			func(r *Registers, bus *flatBus) { r.A, r.X = 0xf0, 0x3c },
			[]uint8{0x87, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x10] == 0x30 },
			3,
		},
		{
			"DCP zp",
			func(r *Registers, bus *flatBus) { bus[0x10], r.A = 0x11, 0x10 },
			[]uint8{0xc7, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x10] == 0x10 && r.P.Z && r.P.C && r.A == 0x10 },
			5,
		},
		{
			"ISC zp",
			func(r *Registers, bus *flatBus) { bus[0x10], r.A, r.P.C = 0x0f, 0x20, true },
			[]uint8{0xe7, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x10] == 0x10 && r.A == 0x10 && r.P.C },
			5,
		},
		{
			"SLO zp",
			func(r *Registers, bus *flatBus) { bus[0x10], r.A = 0x81, 0x01 },
			[]uint8{0x07, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x10] == 0x02 && r.P.C && r.A == 0x03 },
			5,
		},
		{
			"RLA zp",
			func(r *Registers, bus *flatBus) { bus[0x10], r.A, r.P.C = 0x80, 0xff, true },
			[]uint8{0x27, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x10] == 0x01 && r.P.C && r.A == 0x01 },
			5,
		},
		{
			"SRE zp",
			func(r *Registers, bus *flatBus) { bus[0x10], r.A = 0x03, 0x00 },
			[]uint8{0x47, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x10] == 0x01 && r.P.C && r.A == 0x01 },
			5,
		},
		{
			"RRA zp",
			func(r *Registers, bus *flatBus) { bus[0x10], r.A, r.P.C = 0x02, 0x10, true },
			[]uint8{0x67, 0x10},
			func(r *Registers, bus *flatBus) bool {
				return bus[0x10] == 0x81 && r.A == 0x91 && !r.P.C && !r.P.V && r.P.N
			},
			5,
		},
		{
			"DCP (zp),Y is fixed cost",
			func(r *Registers, bus *flatBus) { bus[0x10], bus[0x11], r.Y = 0xff, 0x02, 1 },
			[]uint8{0xd3, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x0300] == 0xff },
			8,
		},
		{
			"ANC",
			func(r *Registers, bus *flatBus) { r.A = 0xff },
			[]uint8{0x0b, 0x80},
			func(r *Registers, bus *flatBus) bool { return r.A == 0x80 && r.P.N && r.P.C },
			2,
		},
		{
			"ALR",
			func(r *Registers, bus *flatBus) { r.A = 0xff },
			[]uint8{0x4b, 0x03},
			func(r *Registers, bus *flatBus) bool { return r.A == 0x01 && r.P.C && !r.P.N },
			2,
		},
		{
			"ARR",
			func(r *Registers, bus *flatBus) { r.A, r.P.C = 0xc0, false },
			[]uint8{0x6b, 0xff},
			func(r *Registers, bus *flatBus) bool { return r.A == 0x60 && r.P.C && !r.P.V && !r.P.N },
			2,
		},
		{
			"AXS",
			func(r *Registers, bus *flatBus) { r.A, r.X = 0x0f, 0xf3 },
			[]uint8{0xcb, 0x01},
			func(r *Registers, bus *flatBus) bool { return r.X == 0x02 && r.P.C && r.A == 0x0f },
			2,
		},
		{
			"LAS",
			func(r *Registers, bus *flatBus) { r.S, bus[0x0200] = 0xf0, 0x3c },
			[]uint8{0xbb, 0x00, 0x02},
			func(r *Registers, bus *flatBus) bool { return r.A == 0x30 && r.X == 0x30 && r.S == 0x30 },
			4,
		},
		{
			"SHX",
			func(r *Registers, bus *flatBus) { r.X, r.Y = 0xff, 0x01 },
			[]uint8{0x9e, 0x00, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x1001] == 0x11 },
			5,
		},
		{
			"SHY",
			func(r *Registers, bus *flatBus) { r.Y, r.X = 0x0f, 0x01 },
			[]uint8{0x9c, 0x00, 0x10},
			func(r *Registers, bus *flatBus) bool { return bus[0x1001] == 0x01 },
			5,
		},
		{
			"TAS",
			func(r *Registers, bus *flatBus) { r.A, r.X, r.Y = 0xff, 0x3f, 0x00 },
			[]uint8{0x9b, 0x00, 0x10},
			func(r *Registers, bus *flatBus) bool { return r.S == 0x3f && bus[0x1000] == 0x11 },
			5,
		},
		{
			"unofficial SBC",
			func(r *Registers, bus *flatBus) { r.A, r.P.C = 0x10, true },
			[]uint8{0xeb, 0x01},
			func(r *Registers, bus *flatBus) bool { return r.A == 0x0f && r.P.C },
			2,
		},
		{
			"NOP zp",
			nil,
			[]uint8{0x04, 0x10},
			func(r *Registers, bus *flatBus) bool { return *r == Registers{S: 0xfd, PC: 2, P: Reset().P} },
			3,
		},
		{
			"NOP immediate",
			nil,
			[]uint8{0x80, 0x10},
			func(r *Registers, bus *flatBus) bool { return r.A == 0 },
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &flatBus{}
			r := Reset()
			if tt.setup != nil {
				tt.setup(&r, bus)
			}
			_, cycles := exec(t, &r, bus, tt.program...)
			if !tt.check(&r, bus) {
				t.Errorf("unexpected state: %v", r)
			}
			if cycles != tt.cycles {
				t.Errorf("%d cycles, want %d", cycles, tt.cycles)
			}
		})
	}
}

func TestUnsupportedOpcodes(t *testing.T) {
	bus := &flatBus{}
	for _, opcode := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xb2, 0xd2, 0xf2, 0x8b} {
		u, err := Decode(NewSliceCursor([]uint8{opcode, 0x00}))
		if err != nil {
			t.Fatalf("%#02x does not decode: %v", opcode, err)
		}
		r := Reset()
		before := r
		_, err = Execute(u, &r, bus)
		if !errors.Is(err, ErrUnsupportedOpcode) {
			t.Errorf("%#02x: got %v, want unsupported opcode", opcode, err)
		}
		if errors.Is(err, ErrMalformedStream) || errors.Is(err, ErrMemoryFault) {
			t.Errorf("%#02x: reported as a fatal error kind", opcode)
		}
		var uerr *UnsupportedOpcodeError
		if !errors.As(err, &uerr) || uerr.Unit != u {
			t.Errorf("%#02x: error does not carry the unit", opcode)
		}
		if r != before {
			t.Errorf("%#02x: registers changed", opcode)
		}
	}
}

// Apart from XAA and the JAMs, every opcode has a semantic.
func TestOpcodeCoverage(t *testing.T) {
	missing := 0
	for i := 0; i < 256; i++ {
		if execFns[opcodes[i].instr] == nil {
			missing++
			continue
		}
		u := Unit{Opcode: uint8(i), Instruction: opcodes[i].instr}
		if c := u.Cycles(); c < 2 || c > 8 {
			t.Errorf("%#02x %s: base cost %d", i, u.Instruction, c)
		}
	}
	if missing != 13 {
		t.Errorf("%d opcodes without a semantic, want 13", missing)
	}
}

func TestExecuteRejectsForgedUnit(t *testing.T) {
	r := Reset()
	_, err := Execute(Unit{Opcode: 0xa9, Instruction: LDX, Operand: Immediate{1}}, &r, &flatBus{})
	if err == nil {
		t.Fatal("mismatched unit was executed")
	}
	if errors.Is(err, ErrUnsupportedOpcode) {
		t.Errorf("mismatch reported as unsupported opcode")
	}
}
