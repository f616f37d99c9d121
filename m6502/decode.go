// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import (
	"errors"
	"fmt"
	"io"
)

// Unit is one decoded instruction, ready to be executed.
type Unit struct {
	Opcode      uint8
	Instruction Instruction
	Operand     Operand
}

// Size returns the encoded length of the instruction in bytes. The zero Unit,
// as returned alongside an error, has no size.
func (u Unit) Size() int {
	if u.Operand == nil {
		return 0
	}
	return 1 + u.Operand.mode().operandSize()
}

// Cycles returns the base cycle cost, without any page-crossing or branch
// penalty.
func (u Unit) Cycles() int {
	return opcodes[u.Opcode].cycles
}

func (u Unit) String() string {
	if u.Operand == nil {
		return "???"
	}
	operand := u.Operand.String()
	if operand == "" {
		return u.Instruction.String()
	}
	return u.Instruction.String() + " " + operand
}

//==============================================================================
// Byte sources
//==============================================================================

// ByteSource hands out the instruction stream one byte at a time. It returns
// io.EOF once the stream is exhausted.
type ByteSource interface {
	NextByte() (uint8, error)
}

// SliceCursor reads a program held in a byte slice.
type SliceCursor struct {
	buf []uint8
	pos int
}

func NewSliceCursor(buf []uint8) *SliceCursor {
	return &SliceCursor{buf: buf}
}

func (c *SliceCursor) NextByte() (uint8, error) {
	if c.pos >= len(c.buf) {
		return 0, io.EOF
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// Pos returns the offset of the next byte to be read.
func (c *SliceCursor) Pos() int {
	return c.pos
}

// Remaining reports whether there are bytes left.
func (c *SliceCursor) Remaining() bool {
	return c.pos < len(c.buf)
}

// BusCursor reads the instruction stream live from a bus, starting at Addr.
// Addr advances past every byte handed out.
type BusCursor struct {
	Bus  Bus
	Addr uint16
}

func (c *BusCursor) NextByte() (uint8, error) {
	v, err := c.Bus.Read(c.Addr)
	if err != nil {
		return 0, err
	}
	c.Addr++
	return v, nil
}

//==============================================================================
// Decoding
//==============================================================================

// Decode reads one instruction from src. It consumes the opcode and exactly as
// many operand bytes as its addressing mode needs. An empty source yields
// io.EOF; running out of bytes in the middle of an instruction yields
// ErrMalformedStream. Other source errors are passed through unchanged.
func Decode(src ByteSource) (Unit, error) {
	opcode, err := src.NextByte()
	if err != nil {
		return Unit{}, err
	}
	info := &opcodes[opcode]
	operand, err := decodeOperand(src, info.mode)
	if err != nil {
		return Unit{}, fmt.Errorf("opcode %#04x: %w", opcode, err)
	}
	return Unit{Opcode: opcode, Instruction: info.instr, Operand: operand}, nil
}

func fetchB(src ByteSource) (uint8, error) {
	v, err := src.NextByte()
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: unexpected end of program", ErrMalformedStream)
	}
	return v, err
}

func fetchW(src ByteSource) (uint16, error) {
	lo, err := fetchB(src)
	if err != nil {
		return 0, err
	}
	hi, err := fetchB(src)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func decodeOperand(src ByteSource, mode addrmode) (Operand, error) {
	switch mode {
	case addrmodeImp:
		return Implied{}, nil
	case addrmodeAcc:
		return Accumulator{}, nil
	case addrmodeAbs, addrmodeAbsX, addrmodeAbsY, addrmodeAbsInd:
		w, err := fetchW(src)
		if err != nil {
			return nil, err
		}
		switch mode {
		case addrmodeAbs:
			return Absolute{w}, nil
		case addrmodeAbsX:
			return AbsoluteX{w}, nil
		case addrmodeAbsY:
			return AbsoluteY{w}, nil
		default:
			return Indirect{w}, nil
		}
	}
	b, err := fetchB(src)
	if err != nil {
		return nil, err
	}
	switch mode {
	case addrmodeImm:
		return Immediate{b}, nil
	case addrmodeZp:
		return ZeroPage{b}, nil
	case addrmodeZpX:
		return ZeroPageX{b}, nil
	case addrmodeZpY:
		return ZeroPageY{b}, nil
	case addrmodeRel:
		return Relative{int8(b)}, nil
	case addrmodeZpXInd:
		return IndexedIndirect{b}, nil
	case addrmodeZpIndY:
		return IndirectIndexed{b}, nil
	}
	panic(fmt.Sprintf("unknown addressing mode %d", mode))
}

// DecodeAll decodes a whole program. It is meant for listings; execution
// should go through CPU.Step so that the stream is read at the current PC.
func DecodeAll(program []uint8) ([]Unit, error) {
	cur := NewSliceCursor(program)
	var units []Unit
	for cur.Remaining() {
		u, err := Decode(cur)
		if err != nil {
			return units, fmt.Errorf("offset %#x: %w", cur.Pos(), err)
		}
		units = append(units, u)
	}
	return units, nil
}
