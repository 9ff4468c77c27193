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

// opRJMP jumps PC-relative by a signed 12-bit word offset.
func (e *Engine) opRJMP(hi, lo byte) {
	k := rjmpOffset(hi, lo)
	e.PC = uint16(int32(e.PC) + 2 + int32(k)*2)
}

// opRCALL pushes the return address and jumps PC-relative, the call
// counterpart of opRJMP.
func (e *Engine) opRCALL(hi, lo byte) {
	k := rjmpOffset(hi, lo)
	ret := e.PC + 2
	e.pushPC(ret)
	e.PC = uint16(int32(ret) + int32(k)*2)
}

// opJMP jumps to a 22-bit word address spread across a 4-byte encoding,
// counted from the target's entry point.
func (e *Engine) opJMP(hi, lo byte) {
	word := jmpCallWord(hi, lo, e.Mem[e.PC+2], e.Mem[e.PC+3])
	e.PC = e.Target.Entry + uint16(word*2)
}

// opCALL pushes the return address, then jumps to a 22-bit word address
// counted from the target's entry point.
func (e *Engine) opCALL(hi, lo byte) {
	word := jmpCallWord(hi, lo, e.Mem[e.PC+2], e.Mem[e.PC+3])
	e.pushPC(e.PC + 4)
	e.PC = e.Target.Entry + uint16(word*2)
}

// opIJMP jumps to the word address held in Z. The 16-bit pair arithmetic
// wraps safely regardless of what's in Z; spec.md §9 flags the source's
// pointer-overflow handling here as a defect this sidesteps entirely by
// just trusting Go's uint16 wraparound.
func (e *Engine) opIJMP() {
	e.PC = e.Mem.Z() * 2
}

// opICALL pushes the return address, then jumps to the word address in Z.
func (e *Engine) opICALL() {
	ret := e.PC + 2
	e.pushPC(ret)
	e.PC = e.Mem.Z() * 2
}

// opRET pops a return address pushed by RCALL/CALL/ICALL.
func (e *Engine) opRET() {
	e.PC = e.popPC()
}

// opRETI pops a return address pushed by the timer-interrupt injection and
// re-enables the global interrupt flag.
func (e *Engine) opRETI() {
	e.PC = e.popPC()
	e.SREG.I = true
}

// opBranch implements the whole BRBS/BRBC family: branch if SREG bit sss is
// set (hi&4==0) or clear (hi&4!=0). BRGE/BRLT (sss==4, the S flag) are
// special-cased to consult branchGreater/branchEqual instead of S directly,
// since S is only as good as the approximate V flag it's built from
// (spec.md §3, §9); every other mnemonic (BRCS, BREQ, BRMI, BRVS, BRTS,
// BRIE and their complements) reads SREG directly.
func (e *Engine) opBranch(hi, lo byte) {
	branchIfClear := hi&4 != 0
	sss := lo & 7
	k := branchOffset(hi, lo)

	var condition bool
	if sss == 4 {
		condition = !(e.branchGreater || e.branchEqual)
		if branchIfClear {
			condition = !condition
		}
		e.branchGreater = false
		e.branchEqual = false
	} else {
		condition = e.sregBit(sss)
		if branchIfClear {
			condition = !condition
		}
	}

	next := e.PC + 2
	if condition {
		next = uint16(int32(next) + int32(k)*2)
	}
	e.PC = next
}

// sregBit reads SREG flag number sss in the C,Z,N,V,S,H,T,I bit order used
// throughout the decoder.
func (e *Engine) sregBit(sss byte) bool {
	switch sss {
	case 0:
		return e.SREG.C
	case 1:
		return e.SREG.Z
	case 2:
		return e.SREG.N
	case 3:
		return e.SREG.V
	case 4:
		return e.SREG.S
	case 5:
		return e.SREG.H
	case 6:
		return e.SREG.T
	default:
		return e.SREG.I
	}
}

// opBLD loads T into bit b of Rd.
func (e *Engine) opBLD(hi, lo byte) {
	d := int((hi&1)<<4) | int(lo>>4)
	b := lo & 7
	if e.SREG.T {
		e.Mem[d] |= 1 << b
	} else {
		e.Mem[d] &^= 1 << b
	}
	e.PC += 2
}

// opBST stores bit b of Rd into T.
func (e *Engine) opBST(hi, lo byte) {
	d := int((hi&1)<<4) | int(lo>>4)
	b := lo & 7
	var delta flagDelta
	delta.T = tristateOf(e.Mem[d]&(1<<b) != 0)
	e.SREG.merge(delta)
	e.PC += 2
}

// opSBRC skips the next instruction if bit b of Rr is clear.
func (e *Engine) opSBRC(hi, lo byte) bool {
	r := int((hi&1)<<4) | int(lo>>4)
	b := lo & 7
	next := e.PC + 2
	if e.Mem[r]&(1<<b) == 0 {
		next = e.skipNext(next)
	}
	e.PC = next
	return true
}

// opSBRS skips the next instruction if bit b of Rr is set.
func (e *Engine) opSBRS(hi, lo byte) bool {
	r := int((hi&1)<<4) | int(lo>>4)
	b := lo & 7
	next := e.PC + 2
	if e.Mem[r]&(1<<b) != 0 {
		next = e.skipNext(next)
	}
	e.PC = next
	return true
}

// opCBI clears a single bit in a low I/O register.
func (e *Engine) opCBI(lo byte) {
	addr := ioBitAddr(lo)
	bit := ioBit(lo)
	e.writeMemory(addr, e.Mem[addr]&^(1<<bit))
	e.PC += 2
}

// opSBI sets a single bit in a low I/O register.
func (e *Engine) opSBI(lo byte) {
	addr := ioBitAddr(lo)
	bit := ioBit(lo)
	e.writeMemory(addr, e.Mem[addr]|1<<bit)
	e.PC += 2
}

// opSBIC skips the next instruction if bit b of a low I/O register is
// clear. Not named directly in the mnemonic list this decoder targets, but
// it shares SBIS's decode and skip machinery exactly, so it comes for free.
func (e *Engine) opSBIC(lo byte) {
	addr := ioBitAddr(lo)
	bit := ioBit(lo)
	next := e.PC + 2
	if e.readMemory(addr)&(1<<bit) == 0 {
		next = e.skipNext(next)
	}
	e.PC = next
}

// opSBIS skips the next instruction if bit b of a low I/O register is set.
func (e *Engine) opSBIS(lo byte) bool {
	addr := ioBitAddr(lo)
	bit := ioBit(lo)
	next := e.PC + 2
	if e.readMemory(addr)&(1<<bit) != 0 {
		next = e.skipNext(next)
	}
	e.PC = next
	return true
}
