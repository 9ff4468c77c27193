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

// opLoadStoreDisp handles the 0x80-0x8F/0xA0-0xAF bucket: LDD/STD with a
// 6-bit displacement off Y or Z, which also covers plain "LD Rd,Y"/"LD Rd,Z"
// as the q=0 case (spec.md §4.2).
func (e *Engine) opLoadStoreDisp(hi, lo byte) {
	reg := dispReg(hi, lo)
	q := dispQ(hi, lo)
	var base uint16
	if dispIsY(lo) {
		base = e.Mem.Y()
	} else {
		base = e.Mem.Z()
	}
	addr := base + q

	if hi&2 != 0 { // store
		e.writeMemory(addr, e.Mem[reg])
	} else {
		e.Mem[reg] = e.readMemory(addr)
	}
	e.PC += 2
}

// opLoadGroup handles the 0x90/0x91 bucket: LDS, LPM, and the
// post-increment/pre-decrement X/Y/Z loads, plus POP.
func (e *Engine) opLoadGroup(hi, lo byte) bool {
	d := int((hi&1)<<4) | int(lo>>4)

	switch lo & 0xF {
	case 0x0: // LDS, 4-byte absolute
		addr := absDataAddr(e.Mem[e.PC+2], e.Mem[e.PC+3])
		e.Mem[d] = e.readMemory(addr)
		e.PC += 4
	case 0x1: // LD Rd, Z+
		e.Mem[d] = e.readMemory(e.Mem.Z())
		e.Mem.incPair(30)
		e.PC += 2
	case 0x2: // LD Rd, -Z
		e.Mem.decPair(30)
		e.Mem[d] = e.readMemory(e.Mem.Z())
		e.PC += 2
	case 0x4: // LPM Rd, Z
		e.Mem[d] = e.lpmRead(e.Mem.Z())
		e.PC += 2
	case 0x5: // LPM Rd, Z+
		e.Mem[d] = e.lpmRead(e.Mem.Z())
		e.Mem.incPair(30)
		e.PC += 2
	case 0x9: // LD Rd, Y+
		e.Mem[d] = e.readMemory(e.Mem.Y())
		e.Mem.incPair(28)
		e.PC += 2
	case 0xA: // LD Rd, -Y
		e.Mem.decPair(28)
		e.Mem[d] = e.readMemory(e.Mem.Y())
		e.PC += 2
	case 0xC: // LD Rd, X
		e.Mem[d] = e.readMemory(e.Mem.X())
		e.PC += 2
	case 0xD: // LD Rd, X+
		e.Mem[d] = e.readMemory(e.Mem.X())
		e.Mem.incPair(26)
		e.PC += 2
	case 0xE: // LD Rd, -X
		e.Mem.decPair(26)
		e.Mem[d] = e.readMemory(e.Mem.X())
		e.PC += 2
	case 0xF: // POP Rd
		e.Mem[d] = e.popByte()
		e.PC += 2
	default:
		return false
	}
	return true
}

// lpmRead reads a byte out of the flash image addressed by the Z pointer.
// spec.md §4.2 carries forward the source's odd-address XOR-1 compensation
// for the byte-swapped word layout the HEX loader produces.
func (e *Engine) lpmRead(z uint16) uint8 {
	addr := uint16(e.Target.Entry) + z
	return e.Mem[addr^1]
}

// opStoreGroup handles the 0x92/0x93 bucket: STS and the post-increment/
// pre-decrement X/Y/Z stores, plus PUSH.
func (e *Engine) opStoreGroup(hi, lo byte) bool {
	r := int((hi&1)<<4) | int(lo>>4)

	switch lo & 0xF {
	case 0x0: // STS, 4-byte absolute
		addr := absDataAddr(e.Mem[e.PC+2], e.Mem[e.PC+3])
		e.writeMemory(addr, e.Mem[r])
		e.PC += 4
	case 0x1: // ST Z+, Rr
		e.writeMemory(e.Mem.Z(), e.Mem[r])
		e.Mem.incPair(30)
		e.PC += 2
	case 0x2: // ST -Z, Rr
		e.Mem.decPair(30)
		e.writeMemory(e.Mem.Z(), e.Mem[r])
		e.PC += 2
	case 0x9: // ST Y+, Rr
		e.writeMemory(e.Mem.Y(), e.Mem[r])
		e.Mem.incPair(28)
		e.PC += 2
	case 0xA: // ST -Y, Rr
		e.Mem.decPair(28)
		e.writeMemory(e.Mem.Y(), e.Mem[r])
		e.PC += 2
	case 0xC: // ST X, Rr
		e.writeMemory(e.Mem.X(), e.Mem[r])
		e.PC += 2
	case 0xD: // ST X+, Rr
		e.writeMemory(e.Mem.X(), e.Mem[r])
		e.Mem.incPair(26)
		e.PC += 2
	case 0xE: // ST -X, Rr
		e.Mem.decPair(26)
		e.writeMemory(e.Mem.X(), e.Mem[r])
		e.PC += 2
	case 0xF: // PUSH Rr
		e.pushByte(e.Mem[r])
		e.PC += 2
	default:
		return false
	}
	return true
}

// opIN loads from an I/O address into a register.
func (e *Engine) opIN(hi, lo byte) {
	d := inOutReg(hi, lo)
	addr := inOutAddr(hi, lo) + uint16(e.Target.IOBase)
	e.Mem[d] = e.readMemory(addr)
	e.PC += 2
}

// opOUT stores a register to an I/O address.
func (e *Engine) opOUT(hi, lo byte) {
	r := inOutReg(hi, lo)
	addr := inOutAddr(hi, lo) + uint16(e.Target.IOBase)
	e.writeMemory(addr, e.Mem[r])
	e.PC += 2
}
