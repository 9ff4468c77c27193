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

// Operand extraction ==========================================================
// AVR packs operand fields across both bytes of a 16-bit instruction word.
// Because the HEX loader byte-swaps each word on load (see avr/ihex), hi is
// the byte stored at PC and lo is the byte at PC+1; hi carries the
// instruction's high-order bits. Every helper below takes hi, lo directly
// rather than reaching into an Engine, so the decoding formulas from spec.md
// §4.2 read as plain, testable arithmetic.

// twoRegRd/twoRegRr extract the two 5-bit register operands shared by
// ADD/ADC/SUB/SBC/AND/OR/EOR/MOV/CP/CPC/CPSE.
func twoRegRd(hi, lo byte) int {
	return int((hi&1)<<4) | int(lo>>4)
}

func twoRegRr(hi, lo byte) int {
	return int(((hi&2)>>1)<<4) | int(lo&0xF)
}

// immRd/immK extract the destination register and immediate for the
// CPI/SUBI/SBCI/ORI/ANDI/LDI family, whose Rd is always in R16..R31.
func immRd(lo byte) int {
	return 16 + int(lo>>4)
}

func immK(hi, lo byte) uint8 {
	return uint8(hi&0xF)<<4 | uint8(lo&0xF)
}

// dispQ, dispIsY and dispReg decode the displacement forms of LD/ST Y/Z.
func dispQ(hi, lo byte) uint16 {
	return uint16(hi&0xC)<<1 | uint16(lo&0x7) | uint16(hi>>1&0x10)
}

func dispIsY(lo byte) bool {
	return lo&0xF >= 8
}

func dispReg(hi, lo byte) int {
	return int((hi&1)<<4) | int(lo>>4)
}

// wideRegPair and wideK decode ADIW/SBIW's register-pair selector and
// 6-bit immediate.
func wideRegPair(lo byte) int {
	switch (lo >> 4) & 3 {
	case 0:
		return 24
	case 1:
		return 26
	case 2:
		return 28
	default:
		return 30
	}
}

func wideK(lo byte) uint8 {
	return (lo&0xC0)>>2 | (lo & 0xF)
}

// ioBitAddr and ioBit decode CBI/SBI/SBIS's I/O address and bit index.
func ioBitAddr(lo byte) uint16 {
	return uint16(lo>>3) + 0x20
}

func ioBit(lo byte) uint8 {
	return lo & 7
}

// inOutAddr and inOutReg decode IN/OUT's 6-bit I/O address and register.
func inOutAddr(hi, lo byte) uint16 {
	return uint16((hi&7)>>1)<<4 | uint16(lo&0xF)
}

func inOutReg(hi, lo byte) int {
	return int((hi&1)<<4) | int(lo>>4)
}

// branchOffset sign-extends the 7-bit relative-branch field. spec.md §9
// flags the source's "0x40 < result" cutoff as a known defect; this uses a
// real int8 sign extension instead.
func branchOffset(hi, lo byte) int16 {
	k := (hi&3)<<5 | (lo >> 3)
	return int16(int8(k << 1) >> 1)
}

// rjmpOffset sign-extends RJMP/RCALL's 12-bit relative field.
func rjmpOffset(hi, lo byte) int16 {
	k := uint16(hi&0xF)<<8 | uint16(lo)
	return int16(k<<4) >> 4
}

// jmpCallWord decodes the 22-bit word address spread across JMP/CALL's
// 4-byte encoding.
func jmpCallWord(hi, lo, b2, b3 byte) uint32 {
	return uint32(hi&1)<<21 | uint32(lo>>4)<<17 | uint32(lo&1)<<16 | uint32(b2)<<8 | uint32(b3)
}

// absDataAddr decodes LDS/STS's 4-byte absolute data address.
func absDataAddr(b2, b3 byte) uint16 {
	return uint16(b2)<<8 | uint16(b3)
}

// isLongOpcode reports whether the instruction at hi,lo is one of the
// 4-byte forms (LDS, STS, JMP, CALL), which the skip family (CPSE, SBRC,
// SBRS, SBIS) must skip over in full.
func isLongOpcode(hi, lo byte) bool {
	switch hi {
	case 0x90, 0x91, 0x92, 0x93:
		return lo&0xF == 0x0 // LDS / STS
	case 0x94, 0x95:
		switch lo & 0xF {
		case 0xC, 0xD, 0xE, 0xF:
			return true // JMP / CALL
		}
	}
	return false
}
