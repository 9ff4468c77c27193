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

// tristate is the per-instruction flag verdict: an instruction either wants
// a flag cleared, set, or doesn't touch it at all. IGNORE never survives
// into the committed SREG.
type tristate uint8

const (
	flagIgnore tristate = iota
	flagClear
	flagSet
)

func tristateOf(b bool) tristate {
	if b {
		return flagSet
	}
	return flagClear
}

// flagDelta is the transient record an instruction builds while it executes.
// SREG.merge applies it to SREG once the instruction's data move has
// already happened, mirroring original_source/main.cpp's "status" struct and
// its pushStatus() merge, but with IGNORE modeled as a real zero value
// instead of a magic 3-bit field.
type flagDelta struct {
	C, Z, N, V, S, H, T, I tristate
}

// SREG is the committed status register: eight flags, never IGNORE.
type SREG struct {
	C, Z, N, V, S, H, T, I bool
}

// merge applies every non-ignored field of d onto SREG.
func (s *SREG) merge(d flagDelta) {
	if d.C != flagIgnore {
		s.C = d.C == flagSet
	}
	if d.Z != flagIgnore {
		s.Z = d.Z == flagSet
	}
	if d.N != flagIgnore {
		s.N = d.N == flagSet
	}
	if d.V != flagIgnore {
		s.V = d.V == flagSet
	}
	if d.S != flagIgnore {
		s.S = d.S == flagSet
	}
	if d.H != flagIgnore {
		s.H = d.H == flagSet
	}
	if d.T != flagIgnore {
		s.T = d.T == flagSet
	}
	if d.I != flagIgnore {
		s.I = d.I == flagSet
	}
}

// Byte packs SREG into the conventional AVR bit layout (I T H S V N Z C,
// MSB to LSB), for the peripheral-facing read of the SREG I/O address.
func (s SREG) Byte() uint8 {
	var b uint8
	if s.C {
		b |= 1 << 0
	}
	if s.Z {
		b |= 1 << 1
	}
	if s.N {
		b |= 1 << 2
	}
	if s.V {
		b |= 1 << 3
	}
	if s.S {
		b |= 1 << 4
	}
	if s.H {
		b |= 1 << 5
	}
	if s.T {
		b |= 1 << 6
	}
	if s.I {
		b |= 1 << 7
	}
	return b
}

// generateH is the half-carry helper from spec: set iff the low nibbles of
// the two operands carry into bit 4.
func generateH(a, b uint8) tristate {
	return tristateOf(((uint16(a&0xF) + uint16(b&0xF)) & 0x10) != 0)
}

// generateV is the signed-overflow helper shared by every flag-producing
// family, add and subtract alike: operands that share a sign bit overflow
// when a+b's sign bit differs from theirs; operands with differing sign
// bits can never overflow. This mirrors generateVStatus() in
// original_source/main.cpp exactly, including its use of a+b (not a-b) as
// the comparison sum even for subtract/compare families — spec.md §9 calls
// this out as an approximation and compensates for it with
// branchGreater/branchEqual on the signed-comparison branches.
func generateV(a, b uint8) tristate {
	sum := a + b
	aNeg := a&0x80 != 0
	bNeg := b&0x80 != 0
	sNeg := sum&0x80 != 0
	switch {
	case aNeg && bNeg:
		return tristateOf(!sNeg)
	case !aNeg && !bNeg:
		return tristateOf(sNeg)
	default:
		return flagClear
	}
}
