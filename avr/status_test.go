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

import "testing"

func TestSREGByteBitOrder(t *testing.T) {
	s := SREG{C: true, T: true}
	got := s.Byte()
	want := uint8(1<<0 | 1<<6)
	if got != want {
		t.Fatalf("Byte() = 0x%02X, want 0x%02X", got, want)
	}
}

func TestMergeLeavesIgnoredFlagsAlone(t *testing.T) {
	s := SREG{Z: true}
	s.merge(flagDelta{C: flagSet, Z: flagIgnore})
	if !s.C {
		t.Fatal("merge() should set C from flagSet")
	}
	if !s.Z {
		t.Fatal("merge() with flagIgnore must not touch the existing Z value")
	}
}

func TestGenerateVBothNegativeNoOverflow(t *testing.T) {
	// -1 + -1 = -2, no signed overflow.
	if got := generateV(0xFF, 0xFF); got != flagClear {
		t.Fatalf("generateV(-1,-1) = %v, want flagClear", got)
	}
}

func TestGenerateVPositiveOverflow(t *testing.T) {
	// 0x7F + 0x01 = 0x80: both positive operands, negative sum -> overflow.
	if got := generateV(0x7F, 0x01); got != flagSet {
		t.Fatalf("generateV(0x7F,0x01) = %v, want flagSet", got)
	}
}

func TestGenerateHCarriesOutOfLowNibble(t *testing.T) {
	if got := generateH(0x0F, 0x01); got != flagSet {
		t.Fatalf("generateH(0x0F,0x01) = %v, want flagSet", got)
	}
	if got := generateH(0x01, 0x01); got != flagClear {
		t.Fatalf("generateH(0x01,0x01) = %v, want flagClear", got)
	}
}
