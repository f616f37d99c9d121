// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

import "fmt"

//==============================================================================
// Execution
//==============================================================================

// execution is the state of the instruction currently being executed.
type execution struct {
	r      *Registers
	bus    Bus
	op     target
	cycles int
}

type execFn func(x *execution) error

var execFns [instructionCount]execFn

func init() {
	// Load/store --------------------------------------------------------------
	execFns[LDA] = ldaExec
	execFns[LDX] = ldxExec
	execFns[LDY] = ldyExec
	execFns[STA] = staExec
	execFns[STX] = stxExec
	execFns[STY] = styExec
	// Register transfers ------------------------------------------------------
	execFns[TAX] = taxExec
	execFns[TAY] = tayExec
	execFns[TXA] = txaExec
	execFns[TYA] = tyaExec
	// Stack -------------------------------------------------------------------
	execFns[TSX] = tsxExec
	execFns[TXS] = txsExec
	execFns[PHA] = phaExec
	execFns[PHP] = phpExec
	execFns[PLA] = plaExec
	execFns[PLP] = plpExec
	// Logical -----------------------------------------------------------------
	execFns[AND] = andExec
	execFns[EOR] = eorExec
	execFns[ORA] = oraExec
	execFns[BIT] = bitExec
	// Arithmetic --------------------------------------------------------------
	execFns[ADC] = adcExec
	execFns[SBC] = sbcExec
	execFns[CMP] = cmpExec
	execFns[CPX] = cpxExec
	execFns[CPY] = cpyExec
	// Increments & decrements -------------------------------------------------
	execFns[INC] = incExec
	execFns[INX] = inxExec
	execFns[INY] = inyExec
	execFns[DEC] = decExec
	execFns[DEX] = dexExec
	execFns[DEY] = deyExec
	// Shifts ------------------------------------------------------------------
	execFns[ASL] = aslExec
	execFns[LSR] = lsrExec
	execFns[ROL] = rolExec
	execFns[ROR] = rorExec
	// Jumps & calls -----------------------------------------------------------
	execFns[JMP] = jmpExec
	execFns[JSR] = jsrExec
	execFns[RTS] = rtsExec
	// Branches ----------------------------------------------------------------
	execFns[BCC] = func(x *execution) error { return x.branch(!x.r.P.C) }
	execFns[BCS] = func(x *execution) error { return x.branch(x.r.P.C) }
	execFns[BEQ] = func(x *execution) error { return x.branch(x.r.P.Z) }
	execFns[BMI] = func(x *execution) error { return x.branch(x.r.P.N) }
	execFns[BNE] = func(x *execution) error { return x.branch(!x.r.P.Z) }
	execFns[BPL] = func(x *execution) error { return x.branch(!x.r.P.N) }
	execFns[BVC] = func(x *execution) error { return x.branch(!x.r.P.V) }
	execFns[BVS] = func(x *execution) error { return x.branch(x.r.P.V) }
	// Status flag changes -----------------------------------------------------
	execFns[CLC] = func(x *execution) error { x.r.P.C = false; return nil }
	execFns[CLD] = func(x *execution) error { x.r.P.D = false; return nil }
	execFns[CLI] = func(x *execution) error { x.r.P.I = false; return nil }
	execFns[CLV] = func(x *execution) error { x.r.P.V = false; return nil }
	execFns[SEC] = func(x *execution) error { x.r.P.C = true; return nil }
	execFns[SED] = func(x *execution) error { x.r.P.D = true; return nil }
	execFns[SEI] = func(x *execution) error { x.r.P.I = true; return nil }
	// System ------------------------------------------------------------------
	execFns[BRK] = brkExec
	execFns[NOP] = nopExec
	execFns[RTI] = rtiExec
	// Unofficial --------------------------------------------------------------
	execFns[ALR] = alrExec
	execFns[ANC] = ancExec
	execFns[ARR] = arrExec
	execFns[AXS] = axsExec
	execFns[LAX] = laxExec
	execFns[SAX] = saxExec
	execFns[DCP] = dcpExec
	execFns[ISC] = iscExec
	execFns[RLA] = rlaExec
	execFns[RRA] = rraExec
	execFns[SLO] = sloExec
	execFns[SRE] = sreExec
	execFns[SHY] = func(x *execution) error { return x.storeHighAnd(x.r.Y) }
	execFns[SHX] = func(x *execution) error { return x.storeHighAnd(x.r.X) }
	execFns[AHX] = func(x *execution) error { return x.storeHighAnd(x.r.A & x.r.X) }
	execFns[TAS] = tasExec
	execFns[LAS] = lasExec
	// XAA and JAM stay nil: there is no stable behaviour to emulate.
}

// Execute performs the whole effect of u on r and bus and returns the number
// of cycles it took. r.PC must already point at the byte that follows the
// instruction, which is where the fetch leaves it.
func Execute(u Unit, r *Registers, bus Bus) (int, error) {
	info := &opcodes[u.Opcode]
	if u.Operand == nil || info.instr != u.Instruction || info.mode != u.Operand.mode() {
		return 0, fmt.Errorf("unit %q does not match opcode %#04x (%s)", u, u.Opcode, info.instr)
	}
	fn := execFns[u.Instruction]
	if fn == nil {
		return 0, &UnsupportedOpcodeError{Unit: u}
	}
	op, err := u.Operand.resolve(r, bus)
	if err != nil {
		return 0, err
	}
	x := execution{r: r, bus: bus, op: op, cycles: info.cycles}
	if info.page && op.crossed {
		x.cycles++
	}
	if err := fn(&x); err != nil {
		return 0, err
	}
	return x.cycles, nil
}

//==============================================================================
// Helpers
//==============================================================================

func (x *execution) read() (uint8, error) {
	return x.op.read(x.r, x.bus)
}

func (x *execution) write(v uint8) error {
	return x.op.write(x.r, x.bus, v)
}

func (x *execution) readModifyWrite(f func(uint8) uint8) (uint8, error) {
	return x.op.readModifyWrite(x.r, x.bus, f)
}

// load reads the operand into dst and updates Z and N.
func (x *execution) load(dst *uint8) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	*dst = v
	x.r.P.setZN(v)
	return nil
}

// transfer copies src into dst and updates Z and N.
func (x *execution) transfer(dst *uint8, src uint8) {
	*dst = src
	x.r.P.setZN(src)
}

func (x *execution) branch(cond bool) error {
	if !cond {
		return nil
	}
	x.cycles++
	if x.op.crossed {
		x.cycles++
	}
	x.r.PC = x.op.addr
	return nil
}

// storeHighAnd is the SHx family: the value written is ANDed with the high
// byte of the base address plus one. When indexing crosses a page, the value
// also replaces the high byte of the effective address.
func (x *execution) storeHighAnd(v uint8) error {
	v &= uint8(x.op.base>>8) + 1
	addr := x.op.addr
	if x.op.crossed {
		addr = uint16(v)<<8 | addr&0xff
	}
	return x.bus.Write(addr, v)
}

//==============================================================================
// ALU
//==============================================================================

// ADC -------------------------------------------------------------------------

func adcImpl(lhs, rhs uint8, carryIn bool) (res uint8, carryOut bool, overflow bool) {
	carryVal := uint16(0)
	if carryIn {
		carryVal = 1
	}
	result16 := uint16(lhs) + uint16(rhs) + carryVal
	carryOut = result16 > 0xff
	res = uint8(result16)
	overflow =
		((lhs^rhs)&0x80 == 0) && // It's overflow if LHS and RHS signs are the same
			((lhs^res)&0x80 != 0) // and resulting sign is different
	return
}

// adc adds v to A. Decimal mode is ignored: the 2A03 has no BCD unit.
func (r *Registers) adc(v uint8) {
	var carry, overflow bool
	r.A, carry, overflow = adcImpl(r.A, v, r.P.C)
	r.P.C = carry
	r.P.V = overflow
	r.P.setZN(r.A)
}

// sbc is adc with the operand inverted; carry clear means borrow.
func (r *Registers) sbc(v uint8) {
	r.adc(^v)
}

func (r *Registers) compare(reg, v uint8) {
	r.P.C = reg >= v
	r.P.setZN(reg - v)
}

func (r *Registers) asl(v uint8) uint8 {
	r.P.C = v&0x80 != 0
	v <<= 1
	r.P.setZN(v)
	return v
}

func (r *Registers) lsr(v uint8) uint8 {
	r.P.C = v&0x01 != 0
	v >>= 1
	r.P.setZN(v)
	return v
}

func (r *Registers) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if r.P.C {
		carryIn = 0x01
	}
	r.P.C = v&0x80 != 0
	v = v<<1 | carryIn
	r.P.setZN(v)
	return v
}

func (r *Registers) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if r.P.C {
		carryIn = 0x80
	}
	r.P.C = v&0x01 != 0
	v = v>>1 | carryIn
	r.P.setZN(v)
	return v
}

func (r *Registers) inc(v uint8) uint8 {
	v++
	r.P.setZN(v)
	return v
}

func (r *Registers) dec(v uint8) uint8 {
	v--
	r.P.setZN(v)
	return v
}

//==============================================================================
// Instruction implementation
//==============================================================================

// LDA/LDX/LDY -----------------------------------------------------------------
func ldaExec(x *execution) error { return x.load(&x.r.A) }
func ldxExec(x *execution) error { return x.load(&x.r.X) }
func ldyExec(x *execution) error { return x.load(&x.r.Y) }

// STA/STX/STY -----------------------------------------------------------------
func staExec(x *execution) error { return x.write(x.r.A) }
func stxExec(x *execution) error { return x.write(x.r.X) }
func styExec(x *execution) error { return x.write(x.r.Y) }

// TAX/TAY/TXA/TYA/TSX/TXS -----------------------------------------------------
func taxExec(x *execution) error { x.transfer(&x.r.X, x.r.A); return nil }
func tayExec(x *execution) error { x.transfer(&x.r.Y, x.r.A); return nil }
func txaExec(x *execution) error { x.transfer(&x.r.A, x.r.X); return nil }
func tyaExec(x *execution) error { x.transfer(&x.r.A, x.r.Y); return nil }
func tsxExec(x *execution) error { x.transfer(&x.r.X, x.r.S); return nil }

// TXS is the only transfer that leaves the flags alone.
func txsExec(x *execution) error {
	x.r.S = x.r.X
	return nil
}

// PHA/PHP/PLA/PLP -------------------------------------------------------------
func phaExec(x *execution) error {
	return x.r.push(x.bus, x.r.A)
}

func phpExec(x *execution) error {
	return x.r.push(x.bus, x.r.P.Pack())
}

func plaExec(x *execution) error {
	v, err := x.r.pull(x.bus)
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, v)
	return nil
}

func plpExec(x *execution) error {
	v, err := x.r.pull(x.bus)
	if err != nil {
		return err
	}
	x.r.P = UnpackFlags(v)
	return nil
}

// AND/EOR/ORA -----------------------------------------------------------------
func andExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, x.r.A&v)
	return nil
}

func eorExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, x.r.A^v)
	return nil
}

func oraExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, x.r.A|v)
	return nil
}

// BIT -------------------------------------------------------------------------
func bitExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.r.P.Z = x.r.A&v == 0
	x.r.P.V = v&0x40 != 0
	x.r.P.N = v&0x80 != 0
	return nil
}

// ADC/SBC ---------------------------------------------------------------------
func adcExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.r.adc(v)
	return nil
}

func sbcExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.r.sbc(v)
	return nil
}

// CMP/CPX/CPY -----------------------------------------------------------------
func compareExec(x *execution, reg uint8) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.r.compare(reg, v)
	return nil
}

func cmpExec(x *execution) error { return compareExec(x, x.r.A) }
func cpxExec(x *execution) error { return compareExec(x, x.r.X) }
func cpyExec(x *execution) error { return compareExec(x, x.r.Y) }

// INC/INX/INY/DEC/DEX/DEY -----------------------------------------------------
func incExec(x *execution) error {
	_, err := x.readModifyWrite(x.r.inc)
	return err
}

func decExec(x *execution) error {
	_, err := x.readModifyWrite(x.r.dec)
	return err
}

func inxExec(x *execution) error { x.r.X = x.r.inc(x.r.X); return nil }
func inyExec(x *execution) error { x.r.Y = x.r.inc(x.r.Y); return nil }
func dexExec(x *execution) error { x.r.X = x.r.dec(x.r.X); return nil }
func deyExec(x *execution) error { x.r.Y = x.r.dec(x.r.Y); return nil }

// ASL/LSR/ROL/ROR -------------------------------------------------------------
// These work on either the accumulator or memory; the operand decides.
func aslExec(x *execution) error {
	_, err := x.readModifyWrite(x.r.asl)
	return err
}

func lsrExec(x *execution) error {
	_, err := x.readModifyWrite(x.r.lsr)
	return err
}

func rolExec(x *execution) error {
	_, err := x.readModifyWrite(x.r.rol)
	return err
}

func rorExec(x *execution) error {
	_, err := x.readModifyWrite(x.r.ror)
	return err
}

// JMP/JSR/RTS -----------------------------------------------------------------
func jmpExec(x *execution) error {
	x.r.PC = x.op.addr
	return nil
}

// JSR pushes the address of its own last byte; RTS adds the missing one back.
func jsrExec(x *execution) error {
	if err := x.r.pushW(x.bus, x.r.PC-1); err != nil {
		return err
	}
	x.r.PC = x.op.addr
	return nil
}

func rtsExec(x *execution) error {
	ret, err := x.r.pullW(x.bus)
	if err != nil {
		return err
	}
	x.r.PC = ret + 1
	return nil
}

// BRK/RTI ---------------------------------------------------------------------

// BRK skips a padding byte, so the pushed return address is PC+1. The vector
// is read before anything is pushed, so a fault leaves the state untouched.
func brkExec(x *execution) error {
	vector, err := readMemW(x.bus, IRQVector)
	if err != nil {
		return err
	}
	if err := x.r.pushW(x.bus, x.r.PC+1); err != nil {
		return err
	}
	if err := x.r.push(x.bus, x.r.P.Pack()|FlagB|FlagU); err != nil {
		return err
	}
	x.r.P.I = true
	x.r.PC = vector
	return nil
}

func rtiExec(x *execution) error {
	p, err := x.r.pull(x.bus)
	if err != nil {
		return err
	}
	pc, err := x.r.pullW(x.bus)
	if err != nil {
		return err
	}
	x.r.P = UnpackFlags(p)
	x.r.PC = pc
	return nil
}

// NOP -------------------------------------------------------------------------

// The unofficial multi-byte NOPs still perform their read.
func nopExec(x *execution) error {
	if x.op.kind == targetMem {
		if _, err := x.read(); err != nil {
			return err
		}
	}
	return nil
}

//==============================================================================
// Unofficial instruction implementation
//==============================================================================

// SLO = ASL + ORA -------------------------------------------------------------
func sloExec(x *execution) error {
	v, err := x.readModifyWrite(x.r.asl)
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, x.r.A|v)
	return nil
}

// RLA = ROL + AND -------------------------------------------------------------
func rlaExec(x *execution) error {
	v, err := x.readModifyWrite(x.r.rol)
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, x.r.A&v)
	return nil
}

// SRE = LSR + EOR -------------------------------------------------------------
func sreExec(x *execution) error {
	v, err := x.readModifyWrite(x.r.lsr)
	if err != nil {
		return err
	}
	x.transfer(&x.r.A, x.r.A^v)
	return nil
}

// RRA = ROR + ADC -------------------------------------------------------------
func rraExec(x *execution) error {
	v, err := x.readModifyWrite(x.r.ror)
	if err != nil {
		return err
	}
	x.r.adc(v)
	return nil
}

// DCP = DEC + CMP -------------------------------------------------------------
func dcpExec(x *execution) error {
	v, err := x.readModifyWrite(func(v uint8) uint8 { return v - 1 })
	if err != nil {
		return err
	}
	x.r.compare(x.r.A, v)
	return nil
}

// ISC = INC + SBC -------------------------------------------------------------
func iscExec(x *execution) error {
	v, err := x.readModifyWrite(func(v uint8) uint8 { return v + 1 })
	if err != nil {
		return err
	}
	x.r.sbc(v)
	return nil
}

// LAX = LDA + LDX -------------------------------------------------------------
// The immediate form (LXA) is unstable on real chips; this follows the
// common 0xff magic constant, which makes it a plain load of both registers.
func laxExec(x *execution) error {
	if err := x.load(&x.r.A); err != nil {
		return err
	}
	x.r.X = x.r.A
	return nil
}

// SAX -------------------------------------------------------------------------
func saxExec(x *execution) error {
	return x.write(x.r.A & x.r.X)
}

// ANC = AND, then N is copied to C --------------------------------------------
func ancExec(x *execution) error {
	if err := andExec(x); err != nil {
		return err
	}
	x.r.P.C = x.r.P.N
	return nil
}

// ALR = AND + LSR A -----------------------------------------------------------
func alrExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.r.A = x.r.lsr(x.r.A & v)
	return nil
}

// ARR = AND + ROR A, with C from bit 6 and V from bit 6 ^ bit 5 ---------------
func arrExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	x.r.A = x.r.ror(x.r.A & v)
	x.r.P.C = x.r.A&0x40 != 0
	x.r.P.V = (x.r.A>>6^x.r.A>>5)&0x01 != 0
	return nil
}

// AXS: X = (A & X) - operand, flags as CMP ------------------------------------
func axsExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	ax := x.r.A & x.r.X
	x.r.compare(ax, v)
	x.r.X = ax - v
	return nil
}

// LAS: A = X = S = operand & S ------------------------------------------------
func lasExec(x *execution) error {
	v, err := x.read()
	if err != nil {
		return err
	}
	v &= x.r.S
	x.r.S = v
	x.r.X = v
	x.transfer(&x.r.A, v)
	return nil
}

// TAS: S = A & X, then store like SHx -----------------------------------------
func tasExec(x *execution) error {
	x.r.S = x.r.A & x.r.X
	return x.storeHighAnd(x.r.S)
}
