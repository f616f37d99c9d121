// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

// Instruction is an instruction mnemonic, legal or unofficial.
type Instruction uint8

const (
	// Load/store ------------------------------------------------------------
	LDA = Instruction(iota) // Load accumulator
	LDX                     // Load X register
	LDY                     // Load Y register
	STA                     // Store accumulator
	STX                     // Store X register
	STY                     // Store Y register

	// Register transfers ----------------------------------------------------
	TAX // Transfer A to X
	TAY // Transfer A to Y
	TXA // Transfer X to A
	TYA // Transfer Y to A

	// Stack -----------------------------------------------------------------
	TSX // Transfer S to X
	TXS // Transfer X to S
	PHA // Push A
	PHP // Push P
	PLA // Pull A
	PLP // Pull P

	// Logical ---------------------------------------------------------------
	AND // Logical AND
	EOR // Exclusive OR
	ORA // Inclusive OR
	BIT // Bit test

	// Arithmetic ------------------------------------------------------------
	ADC // Add with carry
	SBC // Subtract with carry
	CMP // Compare A
	CPX // Compare X
	CPY // Compare Y

	// Increments & decrements -----------------------------------------------
	INC // Increment memory
	INX // Increment X
	INY // Increment Y
	DEC // Decrement memory
	DEX // Decrement X
	DEY // Decrement Y

	// Shifts ----------------------------------------------------------------
	ASL // Arithmetic shift left
	LSR // Logical shift right
	ROL // Rotate left
	ROR // Rotate right

	// Jumps & calls ---------------------------------------------------------
	JMP // Jump
	JSR // Jump to subroutine
	RTS // Return from subroutine

	// Branches --------------------------------------------------------------
	BCC // Branch if carry clear
	BCS // Branch if carry set
	BEQ // Branch if equal (Z set)
	BMI // Branch if minus (N set)
	BNE // Branch if not equal (Z clear)
	BPL // Branch if plus (N clear)
	BVC // Branch if overflow clear
	BVS // Branch if overflow set

	// Status flag changes ---------------------------------------------------
	CLC // Clear carry
	CLD // Clear decimal
	CLI // Clear interrupt disable
	CLV // Clear overflow
	SEC // Set carry
	SED // Set decimal
	SEI // Set interrupt disable

	// System ----------------------------------------------------------------
	BRK // Force interrupt
	NOP // No operation
	RTI // Return from interrupt

	// Unofficial ------------------------------------------------------------
	// See https://www.nesdev.org/wiki/Programming_with_unofficial_opcodes
	ALR // AND + LSR
	ANC // AND, C = N
	ARR // AND + ROR, odd flags
	AXS // X = (A & X) - imm
	LAX // LDA + LDX
	SAX // Store A & X
	DCP // DEC + CMP
	ISC // INC + SBC
	RLA // ROL + AND
	RRA // ROR + ADC
	SLO // ASL + ORA
	SRE // LSR + EOR
	SHY // Store Y & (H+1)
	SHX // Store X & (H+1)
	XAA // Unstable
	AHX // Store A & X & (H+1)
	TAS // S = A & X, store S & (H+1)
	LAS // A = X = S = mem & S
	JAM // Halts the processor

	instructionCount
)

var instructionNames = [instructionCount]string{
	LDA: "LDA", LDX: "LDX", LDY: "LDY", STA: "STA", STX: "STX", STY: "STY",
	TAX: "TAX", TAY: "TAY", TXA: "TXA", TYA: "TYA",
	TSX: "TSX", TXS: "TXS", PHA: "PHA", PHP: "PHP", PLA: "PLA", PLP: "PLP",
	AND: "AND", EOR: "EOR", ORA: "ORA", BIT: "BIT",
	ADC: "ADC", SBC: "SBC", CMP: "CMP", CPX: "CPX", CPY: "CPY",
	INC: "INC", INX: "INX", INY: "INY", DEC: "DEC", DEX: "DEX", DEY: "DEY",
	ASL: "ASL", LSR: "LSR", ROL: "ROL", ROR: "ROR",
	JMP: "JMP", JSR: "JSR", RTS: "RTS",
	BCC: "BCC", BCS: "BCS", BEQ: "BEQ", BMI: "BMI",
	BNE: "BNE", BPL: "BPL", BVC: "BVC", BVS: "BVS",
	CLC: "CLC", CLD: "CLD", CLI: "CLI", CLV: "CLV", SEC: "SEC", SED: "SED", SEI: "SEI",
	BRK: "BRK", NOP: "NOP", RTI: "RTI",
	ALR: "ALR", ANC: "ANC", ARR: "ARR", AXS: "AXS", LAX: "LAX", SAX: "SAX",
	DCP: "DCP", ISC: "ISC", RLA: "RLA", RRA: "RRA", SLO: "SLO", SRE: "SRE",
	SHY: "SHY", SHX: "SHX", XAA: "XAA", AHX: "AHX", TAS: "TAS", LAS: "LAS",
	JAM: "JAM",
}

func (i Instruction) String() string {
	if i >= instructionCount {
		return "???"
	}
	return instructionNames[i]
}
