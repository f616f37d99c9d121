// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package m6502

// opcodeInfo is one row of the opcode table.
type opcodeInfo struct {
	instr  Instruction
	mode   addrmode
	cycles int  // Base cycle count
	page   bool // One more cycle when indexing crosses a page
}

// Cycle counts follow the NMOS 6502 datasheet, with the unofficial opcodes
// taken from the nesdev wiki. Branches add their own penalties at run time.
var opcodes = [256]opcodeInfo{
	// 0x00-0x0F
	0x00: {BRK, addrmodeImp, 7, false},
	0x01: {ORA, addrmodeZpXInd, 6, false},
	0x02: {JAM, addrmodeImp, 2, false},
	0x03: {SLO, addrmodeZpXInd, 8, false},
	0x04: {NOP, addrmodeZp, 3, false}, // Unofficial
	0x05: {ORA, addrmodeZp, 3, false},
	0x06: {ASL, addrmodeZp, 5, false},
	0x07: {SLO, addrmodeZp, 5, false},
	0x08: {PHP, addrmodeImp, 3, false},
	0x09: {ORA, addrmodeImm, 2, false},
	0x0a: {ASL, addrmodeAcc, 2, false},
	0x0b: {ANC, addrmodeImm, 2, false},
	0x0c: {NOP, addrmodeAbs, 4, false}, // Unofficial
	0x0d: {ORA, addrmodeAbs, 4, false},
	0x0e: {ASL, addrmodeAbs, 6, false},
	0x0f: {SLO, addrmodeAbs, 6, false},
	// 0x10-0x1F
	0x10: {BPL, addrmodeRel, 2, false},
	0x11: {ORA, addrmodeZpIndY, 5, true},
	0x12: {JAM, addrmodeImp, 2, false},
	0x13: {SLO, addrmodeZpIndY, 8, false},
	0x14: {NOP, addrmodeZpX, 4, false}, // Unofficial
	0x15: {ORA, addrmodeZpX, 4, false},
	0x16: {ASL, addrmodeZpX, 6, false},
	0x17: {SLO, addrmodeZpX, 6, false},
	0x18: {CLC, addrmodeImp, 2, false},
	0x19: {ORA, addrmodeAbsY, 4, true},
	0x1a: {NOP, addrmodeImp, 2, false}, // Unofficial
	0x1b: {SLO, addrmodeAbsY, 7, false},
	0x1c: {NOP, addrmodeAbsX, 4, true}, // Unofficial
	0x1d: {ORA, addrmodeAbsX, 4, true},
	0x1e: {ASL, addrmodeAbsX, 7, false},
	0x1f: {SLO, addrmodeAbsX, 7, false},
	// 0x20-0x2F
	0x20: {JSR, addrmodeAbs, 6, false},
	0x21: {AND, addrmodeZpXInd, 6, false},
	0x22: {JAM, addrmodeImp, 2, false},
	0x23: {RLA, addrmodeZpXInd, 8, false},
	0x24: {BIT, addrmodeZp, 3, false},
	0x25: {AND, addrmodeZp, 3, false},
	0x26: {ROL, addrmodeZp, 5, false},
	0x27: {RLA, addrmodeZp, 5, false},
	0x28: {PLP, addrmodeImp, 4, false},
	0x29: {AND, addrmodeImm, 2, false},
	0x2a: {ROL, addrmodeAcc, 2, false},
	0x2b: {ANC, addrmodeImm, 2, false},
	0x2c: {BIT, addrmodeAbs, 4, false},
	0x2d: {AND, addrmodeAbs, 4, false},
	0x2e: {ROL, addrmodeAbs, 6, false},
	0x2f: {RLA, addrmodeAbs, 6, false},
	// 0x30-0x3F
	0x30: {BMI, addrmodeRel, 2, false},
	0x31: {AND, addrmodeZpIndY, 5, true},
	0x32: {JAM, addrmodeImp, 2, false},
	0x33: {RLA, addrmodeZpIndY, 8, false},
	0x34: {NOP, addrmodeZpX, 4, false}, // Unofficial
	0x35: {AND, addrmodeZpX, 4, false},
	0x36: {ROL, addrmodeZpX, 6, false},
	0x37: {RLA, addrmodeZpX, 6, false},
	0x38: {SEC, addrmodeImp, 2, false},
	0x39: {AND, addrmodeAbsY, 4, true},
	0x3a: {NOP, addrmodeImp, 2, false}, // Unofficial
	0x3b: {RLA, addrmodeAbsY, 7, false},
	0x3c: {NOP, addrmodeAbsX, 4, true}, // Unofficial
	0x3d: {AND, addrmodeAbsX, 4, true},
	0x3e: {ROL, addrmodeAbsX, 7, false},
	0x3f: {RLA, addrmodeAbsX, 7, false},
	// 0x40-0x4F
	0x40: {RTI, addrmodeImp, 6, false},
	0x41: {EOR, addrmodeZpXInd, 6, false},
	0x42: {JAM, addrmodeImp, 2, false},
	0x43: {SRE, addrmodeZpXInd, 8, false},
	0x44: {NOP, addrmodeZp, 3, false}, // Unofficial
	0x45: {EOR, addrmodeZp, 3, false},
	0x46: {LSR, addrmodeZp, 5, false},
	0x47: {SRE, addrmodeZp, 5, false},
	0x48: {PHA, addrmodeImp, 3, false},
	0x49: {EOR, addrmodeImm, 2, false},
	0x4a: {LSR, addrmodeAcc, 2, false},
	0x4b: {ALR, addrmodeImm, 2, false},
	0x4c: {JMP, addrmodeAbs, 3, false},
	0x4d: {EOR, addrmodeAbs, 4, false},
	0x4e: {LSR, addrmodeAbs, 6, false},
	0x4f: {SRE, addrmodeAbs, 6, false},
	// 0x50-0x5F
	0x50: {BVC, addrmodeRel, 2, false},
	0x51: {EOR, addrmodeZpIndY, 5, true},
	0x52: {JAM, addrmodeImp, 2, false},
	0x53: {SRE, addrmodeZpIndY, 8, false},
	0x54: {NOP, addrmodeZpX, 4, false}, // Unofficial
	0x55: {EOR, addrmodeZpX, 4, false},
	0x56: {LSR, addrmodeZpX, 6, false},
	0x57: {SRE, addrmodeZpX, 6, false},
	0x58: {CLI, addrmodeImp, 2, false},
	0x59: {EOR, addrmodeAbsY, 4, true},
	0x5a: {NOP, addrmodeImp, 2, false}, // Unofficial
	0x5b: {SRE, addrmodeAbsY, 7, false},
	0x5c: {NOP, addrmodeAbsX, 4, true}, // Unofficial
	0x5d: {EOR, addrmodeAbsX, 4, true},
	0x5e: {LSR, addrmodeAbsX, 7, false},
	0x5f: {SRE, addrmodeAbsX, 7, false},
	// 0x60-0x6F
	0x60: {RTS, addrmodeImp, 6, false},
	0x61: {ADC, addrmodeZpXInd, 6, false},
	0x62: {JAM, addrmodeImp, 2, false},
	0x63: {RRA, addrmodeZpXInd, 8, false},
	0x64: {NOP, addrmodeZp, 3, false}, // Unofficial
	0x65: {ADC, addrmodeZp, 3, false},
	0x66: {ROR, addrmodeZp, 5, false},
	0x67: {RRA, addrmodeZp, 5, false},
	0x68: {PLA, addrmodeImp, 4, false},
	0x69: {ADC, addrmodeImm, 2, false},
	0x6a: {ROR, addrmodeAcc, 2, false},
	0x6b: {ARR, addrmodeImm, 2, false},
	0x6c: {JMP, addrmodeAbsInd, 5, false},
	0x6d: {ADC, addrmodeAbs, 4, false},
	0x6e: {ROR, addrmodeAbs, 6, false},
	0x6f: {RRA, addrmodeAbs, 6, false},
	// 0x70-0x7F
	0x70: {BVS, addrmodeRel, 2, false},
	0x71: {ADC, addrmodeZpIndY, 5, true},
	0x72: {JAM, addrmodeImp, 2, false},
	0x73: {RRA, addrmodeZpIndY, 8, false},
	0x74: {NOP, addrmodeZpX, 4, false}, // Unofficial
	0x75: {ADC, addrmodeZpX, 4, false},
	0x76: {ROR, addrmodeZpX, 6, false},
	0x77: {RRA, addrmodeZpX, 6, false},
	0x78: {SEI, addrmodeImp, 2, false},
	0x79: {ADC, addrmodeAbsY, 4, true},
	0x7a: {NOP, addrmodeImp, 2, false}, // Unofficial
	0x7b: {RRA, addrmodeAbsY, 7, false},
	0x7c: {NOP, addrmodeAbsX, 4, true}, // Unofficial
	0x7d: {ADC, addrmodeAbsX, 4, true},
	0x7e: {ROR, addrmodeAbsX, 7, false},
	0x7f: {RRA, addrmodeAbsX, 7, false},
	// 0x80-0x8F
	0x80: {NOP, addrmodeImm, 2, false}, // Unofficial
	0x81: {STA, addrmodeZpXInd, 6, false},
	0x82: {NOP, addrmodeImm, 2, false}, // Unofficial
	0x83: {SAX, addrmodeZpXInd, 6, false},
	0x84: {STY, addrmodeZp, 3, false},
	0x85: {STA, addrmodeZp, 3, false},
	0x86: {STX, addrmodeZp, 3, false},
	0x87: {SAX, addrmodeZp, 3, false},
	0x88: {DEY, addrmodeImp, 2, false},
	0x89: {NOP, addrmodeImm, 2, false}, // Unofficial
	0x8a: {TXA, addrmodeImp, 2, false},
	0x8b: {XAA, addrmodeImm, 2, false},
	0x8c: {STY, addrmodeAbs, 4, false},
	0x8d: {STA, addrmodeAbs, 4, false},
	0x8e: {STX, addrmodeAbs, 4, false},
	0x8f: {SAX, addrmodeAbs, 4, false},
	// 0x90-0x9F
	0x90: {BCC, addrmodeRel, 2, false},
	0x91: {STA, addrmodeZpIndY, 6, false},
	0x92: {JAM, addrmodeImp, 2, false},
	0x93: {AHX, addrmodeZpIndY, 6, false},
	0x94: {STY, addrmodeZpX, 4, false},
	0x95: {STA, addrmodeZpX, 4, false},
	0x96: {STX, addrmodeZpY, 4, false},
	0x97: {SAX, addrmodeZpY, 4, false},
	0x98: {TYA, addrmodeImp, 2, false},
	0x99: {STA, addrmodeAbsY, 5, false},
	0x9a: {TXS, addrmodeImp, 2, false},
	0x9b: {TAS, addrmodeAbsY, 5, false},
	0x9c: {SHY, addrmodeAbsX, 5, false},
	0x9d: {STA, addrmodeAbsX, 5, false},
	0x9e: {SHX, addrmodeAbsY, 5, false},
	0x9f: {AHX, addrmodeAbsY, 5, false},
	// 0xA0-0xAF
	0xa0: {LDY, addrmodeImm, 2, false},
	0xa1: {LDA, addrmodeZpXInd, 6, false},
	0xa2: {LDX, addrmodeImm, 2, false},
	0xa3: {LAX, addrmodeZpXInd, 6, false},
	0xa4: {LDY, addrmodeZp, 3, false},
	0xa5: {LDA, addrmodeZp, 3, false},
	0xa6: {LDX, addrmodeZp, 3, false},
	0xa7: {LAX, addrmodeZp, 3, false},
	0xa8: {TAY, addrmodeImp, 2, false},
	0xa9: {LDA, addrmodeImm, 2, false},
	0xaa: {TAX, addrmodeImp, 2, false},
	0xab: {LAX, addrmodeImm, 2, false}, // LXA, assumes magic constant 0xff
	0xac: {LDY, addrmodeAbs, 4, false},
	0xad: {LDA, addrmodeAbs, 4, false},
	0xae: {LDX, addrmodeAbs, 4, false},
	0xaf: {LAX, addrmodeAbs, 4, false},
	// 0xB0-0xBF
	0xb0: {BCS, addrmodeRel, 2, false},
	0xb1: {LDA, addrmodeZpIndY, 5, true},
	0xb2: {JAM, addrmodeImp, 2, false},
	0xb3: {LAX, addrmodeZpIndY, 5, true},
	0xb4: {LDY, addrmodeZpX, 4, false},
	0xb5: {LDA, addrmodeZpX, 4, false},
	0xb6: {LDX, addrmodeZpY, 4, false},
	0xb7: {LAX, addrmodeZpY, 4, false},
	0xb8: {CLV, addrmodeImp, 2, false},
	0xb9: {LDA, addrmodeAbsY, 4, true},
	0xba: {TSX, addrmodeImp, 2, false},
	0xbb: {LAS, addrmodeAbsY, 4, true},
	0xbc: {LDY, addrmodeAbsX, 4, true},
	0xbd: {LDA, addrmodeAbsX, 4, true},
	0xbe: {LDX, addrmodeAbsY, 4, true},
	0xbf: {LAX, addrmodeAbsY, 4, true},
	// 0xC0-0xCF
	0xc0: {CPY, addrmodeImm, 2, false},
	0xc1: {CMP, addrmodeZpXInd, 6, false},
	0xc2: {NOP, addrmodeImm, 2, false}, // Unofficial
	0xc3: {DCP, addrmodeZpXInd, 8, false},
	0xc4: {CPY, addrmodeZp, 3, false},
	0xc5: {CMP, addrmodeZp, 3, false},
	0xc6: {DEC, addrmodeZp, 5, false},
	0xc7: {DCP, addrmodeZp, 5, false},
	0xc8: {INY, addrmodeImp, 2, false},
	0xc9: {CMP, addrmodeImm, 2, false},
	0xca: {DEX, addrmodeImp, 2, false},
	0xcb: {AXS, addrmodeImm, 2, false},
	0xcc: {CPY, addrmodeAbs, 4, false},
	0xcd: {CMP, addrmodeAbs, 4, false},
	0xce: {DEC, addrmodeAbs, 6, false},
	0xcf: {DCP, addrmodeAbs, 6, false},
	// 0xD0-0xDF
	0xd0: {BNE, addrmodeRel, 2, false},
	0xd1: {CMP, addrmodeZpIndY, 5, true},
	0xd2: {JAM, addrmodeImp, 2, false},
	0xd3: {DCP, addrmodeZpIndY, 8, false},
	0xd4: {NOP, addrmodeZpX, 4, false}, // Unofficial
	0xd5: {CMP, addrmodeZpX, 4, false},
	0xd6: {DEC, addrmodeZpX, 6, false},
	0xd7: {DCP, addrmodeZpX, 6, false},
	0xd8: {CLD, addrmodeImp, 2, false},
	0xd9: {CMP, addrmodeAbsY, 4, true},
	0xda: {NOP, addrmodeImp, 2, false}, // Unofficial
	0xdb: {DCP, addrmodeAbsY, 7, false},
	0xdc: {NOP, addrmodeAbsX, 4, true}, // Unofficial
	0xdd: {CMP, addrmodeAbsX, 4, true},
	0xde: {DEC, addrmodeAbsX, 7, false},
	0xdf: {DCP, addrmodeAbsX, 7, false},
	// 0xE0-0xEF
	0xe0: {CPX, addrmodeImm, 2, false},
	0xe1: {SBC, addrmodeZpXInd, 6, false},
	0xe2: {NOP, addrmodeImm, 2, false}, // Unofficial
	0xe3: {ISC, addrmodeZpXInd, 8, false},
	0xe4: {CPX, addrmodeZp, 3, false},
	0xe5: {SBC, addrmodeZp, 3, false},
	0xe6: {INC, addrmodeZp, 5, false},
	0xe7: {ISC, addrmodeZp, 5, false},
	0xe8: {INX, addrmodeImp, 2, false},
	0xe9: {SBC, addrmodeImm, 2, false},
	0xea: {NOP, addrmodeImp, 2, false},
	0xeb: {SBC, addrmodeImm, 2, false}, // Unofficial SBC
	0xec: {CPX, addrmodeAbs, 4, false},
	0xed: {SBC, addrmodeAbs, 4, false},
	0xee: {INC, addrmodeAbs, 6, false},
	0xef: {ISC, addrmodeAbs, 6, false},
	// 0xF0-0xFF
	0xf0: {BEQ, addrmodeRel, 2, false},
	0xf1: {SBC, addrmodeZpIndY, 5, true},
	0xf2: {JAM, addrmodeImp, 2, false},
	0xf3: {ISC, addrmodeZpIndY, 8, false},
	0xf4: {NOP, addrmodeZpX, 4, false}, // Unofficial
	0xf5: {SBC, addrmodeZpX, 4, false},
	0xf6: {INC, addrmodeZpX, 6, false},
	0xf7: {ISC, addrmodeZpX, 6, false},
	0xf8: {SED, addrmodeImp, 2, false},
	0xf9: {SBC, addrmodeAbsY, 4, true},
	0xfa: {NOP, addrmodeImp, 2, false}, // Unofficial
	0xfb: {ISC, addrmodeAbsY, 7, false},
	0xfc: {NOP, addrmodeAbsX, 4, true}, // Unofficial
	0xfd: {SBC, addrmodeAbsX, 4, true},
	0xfe: {INC, addrmodeAbsX, 7, false},
	0xff: {ISC, addrmodeAbsX, 7, false},
}
