// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package avr

// dispatch decodes the instruction at hi,lo and carries out its semantic
// action, including advancing PC. It returns false when no known family
// claims the opcode, which Fetch turns into ErrUnimplementedOpcode.
//
// The switch below is organized exactly the way AVR's own opcode map is: a
// coarse bucket on the high byte, with a handful of families (0x80-0x8F /
// 0xA0-0xAF displacement loads/stores, 0x90-0x95 register/stack/flow misc,
// 0xF0-0xFF branches/bit-test/skip) needing a second look at the low byte or
// at specific bit fields once the bucket narrows things down, per spec.md
// §4.2.
func (e *Engine) dispatch(hi, lo byte) bool {
	switch {
	case hi == 0x00 && lo == 0x00: // NOP
		e.PC += 2
		return true

	case hi == 0x01: // MOVW
		e.opMOVW(lo)
		return true

	case hi == 0x02: // MULS
		e.opMULS(lo)
		return true

	case hi == 0x03 && lo&0x88 == 0x00: // MULSU
		e.opMULSU(lo)
		return true

	case hi >= 0x04 && hi <= 0x07: // CPC
		e.opCPC(hi, lo)
		return true

	case hi >= 0x08 && hi <= 0x0B: // SBC
		e.opSBC(hi, lo)
		return true

	case hi >= 0x0C && hi <= 0x0F: // ADD
		e.opADD(hi, lo)
		return true

	case hi >= 0x10 && hi <= 0x13: // CPSE
		e.opCPSE(hi, lo)
		return true

	case hi >= 0x14 && hi <= 0x17: // CP
		e.opCP(hi, lo)
		return true

	case hi >= 0x18 && hi <= 0x1B: // SUB
		e.opSUB(hi, lo)
		return true

	case hi >= 0x1C && hi <= 0x1F: // ADC
		e.opADC(hi, lo)
		return true

	case hi >= 0x20 && hi <= 0x23: // AND
		e.opAND(hi, lo)
		return true

	case hi >= 0x24 && hi <= 0x27: // EOR
		e.opEOR(hi, lo)
		return true

	case hi >= 0x28 && hi <= 0x2B: // OR
		e.opOR(hi, lo)
		return true

	case hi >= 0x2C && hi <= 0x2F: // MOV
		e.opMOV(hi, lo)
		return true

	case hi >= 0x30 && hi <= 0x3F: // CPI
		e.opCPI(hi, lo)
		return true

	case hi >= 0x40 && hi <= 0x4F: // SBCI
		e.opSBCI(hi, lo)
		return true

	case hi >= 0x50 && hi <= 0x5F: // SUBI
		e.opSUBI(hi, lo)
		return true

	case hi >= 0x60 && hi <= 0x6F: // ORI
		e.opORI(hi, lo)
		return true

	case hi >= 0x70 && hi <= 0x7F: // ANDI
		e.opANDI(hi, lo)
		return true

	case hi&0xD0 == 0x80: // LDD/STD Y+q, Z+q (subsumes plain LD/ST Y, Z)
		e.opLoadStoreDisp(hi, lo)
		return true

	case hi == 0x90 || hi == 0x91:
		return e.opLoadGroup(hi, lo)

	case hi == 0x92 || hi == 0x93:
		return e.opStoreGroup(hi, lo)

	case hi == 0x94 || hi == 0x95:
		return e.opMiscGroup(hi, lo)

	case hi == 0x96: // ADIW
		e.opADIW(lo)
		return true

	case hi == 0x97: // SBIW
		e.opSBIW(lo)
		return true

	case hi == 0x98: // CBI
		e.opCBI(lo)
		return true

	case hi == 0x99: // SBIC
		e.opSBIC(lo)
		return true

	case hi == 0x9A: // SBI
		e.opSBI(lo)
		return true

	case hi == 0x9B: // SBIS
		e.opSBIS(lo)
		return true

	case hi >= 0x9C && hi <= 0x9F: // MUL
		e.opMUL(hi, lo)
		return true

	case hi >= 0xB0 && hi <= 0xB7: // IN
		e.opIN(hi, lo)
		return true

	case hi >= 0xB8 && hi <= 0xBF: // OUT
		e.opOUT(hi, lo)
		return true

	case hi >= 0xC0 && hi <= 0xCF: // RJMP
		e.opRJMP(hi, lo)
		return true

	case hi >= 0xD0 && hi <= 0xDF: // RCALL
		e.opRCALL(hi, lo)
		return true

	case hi >= 0xE0 && hi <= 0xEF: // LDI
		e.opLDI(hi, lo)
		return true

	case hi >= 0xF0 && hi <= 0xF7: // BRxx
		e.opBranch(hi, lo)
		return true

	case hi == 0xF8 || hi == 0xF9: // BLD
		e.opBLD(hi, lo)
		return true

	case hi == 0xFA || hi == 0xFB: // BST
		e.opBST(hi, lo)
		return true

	case hi == 0xFC || hi == 0xFD: // SBRC
		return e.opSBRC(hi, lo)

	case hi == 0xFE || hi == 0xFF: // SBRS
		return e.opSBRS(hi, lo)
	}

	return false
}

// skipNext computes the PC past the two-byte instruction at pc, or past all
// four bytes if it's one of the long encodings (spec.md §4.2's "long opcode"
// rule), and returns that new PC. Used by CPSE/SBRC/SBRS/SBIS/SBIC.
func (e *Engine) skipNext(pc uint16) uint16 {
	hi, lo := e.Mem[pc], e.Mem[pc+1]
	if isLongOpcode(hi, lo) {
		return pc + 4
	}
	return pc + 2
}
