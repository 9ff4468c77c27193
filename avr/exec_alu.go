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

// nz returns the N and Z verdicts shared by almost every ALU instruction.
func nz(result uint8) (n, z tristate) {
	return tristateOf(result&0x80 != 0), tristateOf(result == 0)
}

// withS derives S = N xor V, both of which must already be decided (never
// flagIgnore) by the caller.
func withS(n, v tristate) tristate {
	return tristateOf((n == flagSet) != (v == flagSet))
}

// stickyZ implements the CPC/SBC/SBCI rule: Z clears on a nonzero result but
// is left untouched on a zero one, so a chain of byte-wide compares can
// detect a multi-byte zero by ANDing Z across every byte.
func stickyZ(result uint8) tristate {
	if result != 0 {
		return flagClear
	}
	return flagIgnore
}

// setCompareFacts records the signed-comparison side truth CP/CPC/CPI/SUB/SUBI
// expose for BRGE/BRLT to consume, bypassing the approximate V flag.
func (e *Engine) setCompareFacts(a, b uint8) {
	e.branchEqual = a == b
	e.branchGreater = int8(a) > int8(b)
}

// opMOVW copies a register pair in one step.
func (e *Engine) opMOVW(lo byte) {
	d := int(lo>>4) * 2
	r := int(lo&0xF) * 2
	e.Mem[d] = e.Mem[r]
	e.Mem[d+1] = e.Mem[r+1]
	e.PC += 2
}

// opMULS performs signed*signed multiplication between R16..R31, storing the
// 16-bit product in R1:R0. spec.md §9 flags the source's MULS as
// semantically wrong (it multiplies as if unsigned); this does a true int8
// multiply and sets Z/C per the AVR ISA instead of leaving flags untouched.
func (e *Engine) opMULS(lo byte) {
	d := 16 + int(lo>>4)
	r := 16 + int(lo&0xF)
	product := int16(int8(e.Mem[d])) * int16(int8(e.Mem[r]))
	e.Mem.setPair(0, uint16(product))
	var delta flagDelta
	delta.Z = tristateOf(product == 0)
	delta.C = tristateOf(uint16(product)&0x8000 != 0)
	e.SREG.merge(delta)
	e.PC += 2
}

// opMULSU performs signed*unsigned multiplication between R16..R23.
func (e *Engine) opMULSU(lo byte) {
	d := 16 + int(lo>>4)&7
	r := 16 + int(lo&7)
	product := int16(int8(e.Mem[d])) * int16(int16(e.Mem[r]))
	e.Mem.setPair(0, uint16(product))
	var delta flagDelta
	delta.Z = tristateOf(product == 0)
	delta.C = tristateOf(uint16(product)&0x8000 != 0)
	e.SREG.merge(delta)
	e.PC += 2
}

// opMUL performs unsigned*unsigned multiplication, storing R1:R0.
func (e *Engine) opMUL(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	product := uint16(e.Mem[d]) * uint16(e.Mem[r])
	e.Mem.setPair(0, product)
	var delta flagDelta
	delta.Z = tristateOf(product == 0)
	delta.C = tristateOf(product&0x8000 != 0)
	e.SREG.merge(delta)
	e.PC += 2
}

// opADD performs register-register addition: Rd += Rr.
func (e *Engine) opADD(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	a, b := e.Mem[d], e.Mem[r]
	result := a + b
	e.Mem[d] = result

	var delta flagDelta
	delta.H = generateH(a, b)
	delta.V = generateV(a, b)
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(a)+uint16(b) > 0xFF)
	e.SREG.merge(delta)
	e.PC += 2
}

// opADC performs register-register add-with-carry: Rd += Rr + C.
func (e *Engine) opADC(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	a, b := e.Mem[d], e.Mem[r]
	carry := uint8(0)
	if e.SREG.C {
		carry = 1
	}
	result := a + b + carry
	e.Mem[d] = result

	var delta flagDelta
	delta.H = generateH(a, b+carry)
	delta.V = generateV(a, b+carry)
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(a)+uint16(b)+uint16(carry) > 0xFF)
	e.SREG.merge(delta)
	e.PC += 2
}

// opSUB performs register-register subtraction: Rd -= Rr.
func (e *Engine) opSUB(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	a, b := e.Mem[d], e.Mem[r]
	result := a - b
	e.Mem[d] = result
	e.setCompareFacts(a, b)

	var delta flagDelta
	delta.H = generateH(a, b)
	delta.V = generateV(a, b)
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(b) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opSBC performs register-register subtract-with-carry: Rd -= Rr + C, with
// the sticky Z rule for multi-byte borrow chains.
func (e *Engine) opSBC(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	a, b := e.Mem[d], e.Mem[r]
	carry := uint8(0)
	if e.SREG.C {
		carry = 1
	}
	result := a - b - carry
	e.Mem[d] = result

	var delta flagDelta
	delta.H = generateH(a, b+carry)
	delta.V = generateV(a, b+carry)
	delta.N, _ = nz(result)
	delta.Z = stickyZ(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(b)+uint16(carry) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opCPC compares Rd with Rr + C without storing the result, using the same
// sticky Z rule as SBC. Like CP it records branchEqual/branchGreater, from
// Rd and Rr alone.
func (e *Engine) opCPC(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	a, b := e.Mem[d], e.Mem[r]
	carry := uint8(0)
	if e.SREG.C {
		carry = 1
	}
	result := a - b - carry
	e.setCompareFacts(a, b)

	var delta flagDelta
	delta.H = generateH(a, b+carry)
	delta.V = generateV(a, b+carry)
	delta.N, _ = nz(result)
	delta.Z = stickyZ(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(b)+uint16(carry) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opCP compares Rd with Rr without storing the result, recording the
// branchEqual/branchGreater facts BRGE/BRLT rely on.
func (e *Engine) opCP(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	a, b := e.Mem[d], e.Mem[r]
	result := a - b
	e.setCompareFacts(a, b)

	var delta flagDelta
	delta.H = generateH(a, b)
	delta.V = generateV(a, b)
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(b) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opCPSE compares Rd with Rr and skips the next instruction if equal.
func (e *Engine) opCPSE(hi, lo byte) bool {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	next := e.PC + 2
	if e.Mem[d] == e.Mem[r] {
		next = e.skipNext(next)
	}
	e.PC = next
	return true
}

// opAND performs register-register bitwise AND.
func (e *Engine) opAND(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	result := e.Mem[d] & e.Mem[r]
	e.Mem[d] = result

	var delta flagDelta
	delta.V = flagClear
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opOR performs register-register bitwise OR.
func (e *Engine) opOR(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	result := e.Mem[d] | e.Mem[r]
	e.Mem[d] = result

	var delta flagDelta
	delta.V = flagClear
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opEOR performs register-register bitwise XOR. Rd,Rd is the idiomatic
// "clear register" idiom and unconditionally sets Z.
func (e *Engine) opEOR(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	result := e.Mem[d] ^ e.Mem[r]
	e.Mem[d] = result

	var delta flagDelta
	delta.V = flagClear
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opMOV copies Rr into Rd untouched by flags.
func (e *Engine) opMOV(hi, lo byte) {
	d := twoRegRd(hi, lo)
	r := twoRegRr(hi, lo)
	e.Mem[d] = e.Mem[r]
	e.PC += 2
}

// opCPI compares Rd (R16..R31) with an immediate.
func (e *Engine) opCPI(hi, lo byte) {
	d := immRd(lo)
	k := immK(hi, lo)
	a := e.Mem[d]
	result := a - k
	e.setCompareFacts(a, k)

	var delta flagDelta
	delta.H = generateH(a, k)
	delta.V = generateV(a, k)
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(k) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opSBCI subtracts an immediate and the carry flag from Rd.
func (e *Engine) opSBCI(hi, lo byte) {
	d := immRd(lo)
	k := immK(hi, lo)
	a := e.Mem[d]
	carry := uint8(0)
	if e.SREG.C {
		carry = 1
	}
	result := a - k - carry
	e.Mem[d] = result

	var delta flagDelta
	delta.H = generateH(a, k+carry)
	delta.V = generateV(a, k+carry)
	delta.N, _ = nz(result)
	delta.Z = stickyZ(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(k)+uint16(carry) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opSUBI subtracts an immediate from Rd.
func (e *Engine) opSUBI(hi, lo byte) {
	d := immRd(lo)
	k := immK(hi, lo)
	a := e.Mem[d]
	result := a - k
	e.Mem[d] = result
	e.setCompareFacts(a, k)

	var delta flagDelta
	delta.H = generateH(a, k)
	delta.V = generateV(a, k)
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	delta.C = tristateOf(uint16(k) > uint16(a))
	e.SREG.merge(delta)
	e.PC += 2
}

// opORI ORs Rd with an immediate.
func (e *Engine) opORI(hi, lo byte) {
	d := immRd(lo)
	k := immK(hi, lo)
	result := e.Mem[d] | k
	e.Mem[d] = result

	var delta flagDelta
	delta.V = flagClear
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opANDI ANDs Rd with an immediate.
func (e *Engine) opANDI(hi, lo byte) {
	d := immRd(lo)
	k := immK(hi, lo)
	result := e.Mem[d] & k
	e.Mem[d] = result

	var delta flagDelta
	delta.V = flagClear
	delta.N, delta.Z = nz(result)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opLDI loads an immediate into Rd (R16..R31), untouched by flags.
func (e *Engine) opLDI(hi, lo byte) {
	d := immRd(lo)
	e.Mem[d] = immK(hi, lo)
	e.PC += 2
}

// opADIW adds a 6-bit immediate to one of the four upper register pairs.
func (e *Engine) opADIW(lo byte) {
	d := wideRegPair(lo)
	k := uint16(wideK(lo))
	before := e.Mem.pair(d)
	result := before + k
	e.Mem.setPair(d, result)

	var delta flagDelta
	beforeHighBit := before&0x8000 != 0
	resultHighBit := result&0x8000 != 0
	delta.V = tristateOf(!beforeHighBit && resultHighBit)
	delta.C = tristateOf(beforeHighBit && !resultHighBit)
	delta.N = tristateOf(resultHighBit)
	delta.Z = tristateOf(result == 0)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opSBIW subtracts a 6-bit immediate from one of the four upper register
// pairs.
func (e *Engine) opSBIW(lo byte) {
	d := wideRegPair(lo)
	k := uint16(wideK(lo))
	before := e.Mem.pair(d)
	result := before - k
	e.Mem.setPair(d, result)

	var delta flagDelta
	beforeHighBit := before&0x8000 != 0
	resultHighBit := result&0x8000 != 0
	delta.V = tristateOf(beforeHighBit && !resultHighBit)
	delta.C = tristateOf(!beforeHighBit && resultHighBit)
	delta.N = tristateOf(resultHighBit)
	delta.Z = tristateOf(result == 0)
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}

// opMiscGroup dispatches the 0x94/0x95 bucket: single-register ALU ops
// (COM/NEG/SWAP/INC/ASR/LSR/ROR/DEC), BSET/BCLR, IJMP/ICALL, JMP/CALL, and
// the fixed single-word opcodes (RET, RETI, SLEEP, WDR — BREAK is
// intercepted in Fetch before dispatch is ever called).
func (e *Engine) opMiscGroup(hi, lo byte) bool {
	if hi == 0x94 && lo&0xF == 0x8 {
		e.opBSET(lo)
		return true
	}

	switch lo & 0xF {
	case 0x0, 0x1, 0x2, 0x3, 0x5, 0x6, 0x7, 0xA:
		e.opSingleRegALU(hi, lo)
		return true
	case 0x9:
		if hi == 0x94 {
			e.opIJMP()
		} else {
			e.opICALL()
		}
		return true
	case 0xC, 0xD:
		e.opJMP(hi, lo)
		return true
	case 0xE, 0xF:
		e.opCALL(hi, lo)
		return true
	}

	if hi == 0x95 {
		switch lo {
		case 0x08:
			e.opRET()
			return true
		case 0x18:
			e.opRETI()
			return true
		case 0x88, 0xA8: // SLEEP, WDR
			e.PC += 2
			return true
		}
	}

	return false
}

// opBSET implements SEx/CLx: set or clear SREG bit sss, where sss follows
// the same C,Z,N,V,S,H,T,I bit order as SREG.Byte.
func (e *Engine) opBSET(lo byte) {
	sss := (lo >> 4) & 7
	clear := lo&0x80 != 0
	v := tristateOf(!clear)
	var delta flagDelta
	switch sss {
	case 0:
		delta.C = v
	case 1:
		delta.Z = v
	case 2:
		delta.N = v
	case 3:
		delta.V = v
	case 4:
		delta.S = v
	case 5:
		delta.H = v
	case 6:
		delta.T = v
	case 7:
		delta.I = v
	}
	e.SREG.merge(delta)
	e.PC += 2
}

// opSingleRegALU implements the COM/NEG/SWAP/INC/ASR/LSR/ROR/DEC family,
// all of which take a single register operand encoded like twoRegRd.
func (e *Engine) opSingleRegALU(hi, lo byte) {
	d := int((hi&1)<<4) | int(lo>>4)
	a := e.Mem[d]
	var result uint8
	var delta flagDelta

	switch lo & 0xF {
	case 0x0: // COM
		result = 0xFF - a
		delta.V = flagClear
		delta.C = flagSet
	case 0x1: // NEG
		result = 0 - a
		delta.H = tristateOf(result&0x8 != 0 || a&0x8 != 0)
		delta.V = tristateOf(result == 0x80)
		delta.C = tristateOf(result != 0)
	case 0x2: // SWAP
		result = a<<4 | a>>4
		e.Mem[d] = result
		e.PC += 2
		return
	case 0x3: // INC
		result = a + 1
		delta.V = tristateOf(a == 0x7F)
	case 0x5: // ASR
		result = a>>1 | a&0x80
		delta.C = tristateOf(a&1 != 0)
		delta.V = tristateOf((delta.C == flagSet) != (result&0x80 != 0))
	case 0x6: // LSR
		result = a >> 1
		delta.N = flagClear
		delta.C = tristateOf(a&1 != 0)
		delta.V = delta.C
	case 0x7: // ROR
		carryIn := uint8(0)
		if e.SREG.C {
			carryIn = 0x80
		}
		result = a>>1 | carryIn
		delta.C = tristateOf(a&1 != 0)
		delta.V = tristateOf((delta.C == flagSet) != (result&0x80 != 0))
	case 0xA: // DEC
		result = a - 1
		delta.V = tristateOf(a == 0x80)
	}

	e.Mem[d] = result
	if delta.N == flagIgnore {
		delta.N = tristateOf(result&0x80 != 0)
	}
	if delta.Z == flagIgnore {
		delta.Z = tristateOf(result == 0)
	}
	delta.S = withS(delta.N, delta.V)
	e.SREG.merge(delta)
	e.PC += 2
}
