// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import "fmt"

//==============================================================================
// Addressing modes
//==============================================================================

type addrmode uint8

const (
	addrmodeImp    = addrmode(iota) // Implied
	addrmodeAcc                     // Accumulator
	addrmodeImm                     // Immediate
	addrmodeZp                      // Zeropage
	addrmodeZpX                     // Zeropage, X indexed
	addrmodeZpY                     // Zeropage, Y indexed
	addrmodeAbs                     // Absolute
	addrmodeAbsX                    // Absolute, X indexed
	addrmodeAbsY                    // Absolute, Y indexed
	addrmodeRel                     // Relative
	addrmodeAbsInd                  // (Absolute) Indirect
	addrmodeZpXInd                  // (Zeropage) X indexed indirect
	addrmodeZpIndY                  // (Zeropage) indirect Y indexed
)

// operandSize is the number of bytes following the opcode.
func (m addrmode) operandSize() int {
	switch m {
	case addrmodeImp, addrmodeAcc:
		return 0
	case addrmodeAbs, addrmodeAbsX, addrmodeAbsY, addrmodeAbsInd:
		return 2
	default:
		return 1
	}
}

// Operand is the decoded addressing mode of an instruction together with the
// operand bytes that were fetched for it. The concrete types below are the
// only implementations, and all of them are comparable values.
type Operand interface {
	fmt.Stringer
	mode() addrmode
	resolve(r *Registers, bus Bus) (target, error)
}

// Implied ---------------------------------------------------------------------
type Implied struct{}

// Accumulator -----------------------------------------------------------------
type Accumulator struct{}

// Immediate -------------------------------------------------------------------
type Immediate struct{ Value uint8 }

// Zeropage --------------------------------------------------------------------
type ZeroPage struct{ Addr uint8 }
type ZeroPageX struct{ Addr uint8 }
type ZeroPageY struct{ Addr uint8 }

// Absolute --------------------------------------------------------------------
type Absolute struct{ Addr uint16 }
type AbsoluteX struct{ Addr uint16 }
type AbsoluteY struct{ Addr uint16 }

// Relative --------------------------------------------------------------------
type Relative struct{ Offset int8 }

// (Absolute) Indirect ---------------------------------------------------------
type Indirect struct{ Addr uint16 }

// (Zeropage,X) and (Zeropage),Y -----------------------------------------------
type IndexedIndirect struct{ Ptr uint8 }
type IndirectIndexed struct{ Ptr uint8 }

func (Implied) mode() addrmode         { return addrmodeImp }
func (Accumulator) mode() addrmode     { return addrmodeAcc }
func (Immediate) mode() addrmode       { return addrmodeImm }
func (ZeroPage) mode() addrmode        { return addrmodeZp }
func (ZeroPageX) mode() addrmode       { return addrmodeZpX }
func (ZeroPageY) mode() addrmode       { return addrmodeZpY }
func (Absolute) mode() addrmode        { return addrmodeAbs }
func (AbsoluteX) mode() addrmode       { return addrmodeAbsX }
func (AbsoluteY) mode() addrmode       { return addrmodeAbsY }
func (Relative) mode() addrmode        { return addrmodeRel }
func (Indirect) mode() addrmode        { return addrmodeAbsInd }
func (IndexedIndirect) mode() addrmode { return addrmodeZpXInd }
func (IndirectIndexed) mode() addrmode { return addrmodeZpIndY }

func (Implied) String() string            { return "" }
func (Accumulator) String() string        { return "A" }
func (op Immediate) String() string       { return fmt.Sprintf("#$%02X", op.Value) }
func (op ZeroPage) String() string        { return fmt.Sprintf("$%02X", op.Addr) }
func (op ZeroPageX) String() string       { return fmt.Sprintf("$%02X,X", op.Addr) }
func (op ZeroPageY) String() string       { return fmt.Sprintf("$%02X,Y", op.Addr) }
func (op Absolute) String() string        { return fmt.Sprintf("$%04X", op.Addr) }
func (op AbsoluteX) String() string       { return fmt.Sprintf("$%04X,X", op.Addr) }
func (op AbsoluteY) String() string       { return fmt.Sprintf("$%04X,Y", op.Addr) }
func (op Indirect) String() string        { return fmt.Sprintf("($%04X)", op.Addr) }
func (op IndexedIndirect) String() string { return fmt.Sprintf("($%02X,X)", op.Ptr) }
func (op IndirectIndexed) String() string { return fmt.Sprintf("($%02X),Y", op.Ptr) }

// Branch targets are printed relative to the branch opcode itself.
func (op Relative) String() string { return fmt.Sprintf("*%+d", int(op.Offset)+2) }

//==============================================================================
// Address resolution
//==============================================================================

type targetKind uint8

const (
	targetNone = targetKind(iota) // Implied: nothing to read or write
	targetImm                     // Immediate value
	targetAcc                     // Accumulator
	targetMem                     // Memory at addr
)

// target is a resolved operand: where the value lives, and whether the
// effective address was computed across a page boundary.
type target struct {
	kind    targetKind
	val     uint8  // Immediate value
	addr    uint16 // Effective address
	base    uint16 // Address before indexing, for the SHx family
	crossed bool   // Indexing crossed a page
}

func pageCrossed(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

func indexed(base uint16, index uint8) target {
	addr := base + uint16(index)
	return target{kind: targetMem, addr: addr, base: base, crossed: pageCrossed(base, addr)}
}

func (Implied) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetNone}, nil
}
func (Accumulator) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetAcc}, nil
}
func (op Immediate) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetImm, val: op.Value}, nil
}

// Zeropage indexing never leaves page 0.
func (op ZeroPage) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetMem, addr: uint16(op.Addr), base: uint16(op.Addr)}, nil
}
func (op ZeroPageX) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetMem, addr: uint16(op.Addr + r.X), base: uint16(op.Addr)}, nil
}
func (op ZeroPageY) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetMem, addr: uint16(op.Addr + r.Y), base: uint16(op.Addr)}, nil
}

func (op Absolute) resolve(r *Registers, bus Bus) (target, error) {
	return target{kind: targetMem, addr: op.Addr, base: op.Addr}, nil
}
func (op AbsoluteX) resolve(r *Registers, bus Bus) (target, error) {
	return indexed(op.Addr, r.X), nil
}
func (op AbsoluteY) resolve(r *Registers, bus Bus) (target, error) {
	return indexed(op.Addr, r.Y), nil
}

// Relative resolves to the branch destination. PC must already point past the
// branch instruction.
func (op Relative) resolve(r *Registers, bus Bus) (target, error) {
	dest := r.PC + uint16(int16(op.Offset))
	return target{kind: targetMem, addr: dest, base: r.PC, crossed: pageCrossed(r.PC, dest)}, nil
}

func (op Indirect) resolve(r *Registers, bus Bus) (target, error) {
	addr, err := readMemWPageWrap(bus, op.Addr)
	if err != nil {
		return target{}, err
	}
	return target{kind: targetMem, addr: addr, base: op.Addr}, nil
}

func (op IndexedIndirect) resolve(r *Registers, bus Bus) (target, error) {
	addr, err := readMemWPageWrap(bus, uint16(op.Ptr+r.X))
	if err != nil {
		return target{}, err
	}
	return target{kind: targetMem, addr: addr, base: addr}, nil
}

func (op IndirectIndexed) resolve(r *Registers, bus Bus) (target, error) {
	base, err := readMemWPageWrap(bus, uint16(op.Ptr))
	if err != nil {
		return target{}, err
	}
	return indexed(base, r.Y), nil
}

//==============================================================================
// Operand access
//==============================================================================

func (t target) read(r *Registers, bus Bus) (uint8, error) {
	switch t.kind {
	case targetImm:
		return t.val, nil
	case targetAcc:
		return r.A, nil
	case targetMem:
		return bus.Read(t.addr)
	}
	panic("attempted to read on an implied operand")
}

func (t target) write(r *Registers, bus Bus, v uint8) error {
	switch t.kind {
	case targetAcc:
		r.A = v
		return nil
	case targetMem:
		return bus.Write(t.addr, v)
	}
	panic("attempted to write on an implied or immediate operand")
}

func (t target) readModifyWrite(r *Registers, bus Bus, f func(uint8) uint8) (uint8, error) {
	v, err := t.read(r, bus)
	if err != nil {
		return 0, err
	}
	v = f(v)
	if err := t.write(r, bus, v); err != nil {
		return 0, err
	}
	return v, nil
}
