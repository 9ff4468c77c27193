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

package ihex

import (
	"errors"
	"strings"
	"testing"
)

type fakeSink map[uint16]uint8

func (f fakeSink) SetByte(addr uint16, value uint8) { f[addr] = value }

func TestLoadByteSwapsEachPair(t *testing.T) {
	// One record, two bytes "AB CD": A,B land at base+1/base respectively,
	// i.e. the first hex byte of a pair becomes the odd-address byte.
	src := ":02000000ABCD00\n:00000001FF\n"
	sink := fakeSink{}
	if err := Load(strings.NewReader(src), sink, 0x1000); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sink[0x1000] != 0xCD {
		t.Fatalf("sink[0x1000] = 0x%02X, want 0xCD", sink[0x1000])
	}
	if sink[0x1001] != 0xAB {
		t.Fatalf("sink[0x1001] = 0x%02X, want 0xAB", sink[0x1001])
	}
}

func TestLoadStopsAtEOFRecord(t *testing.T) {
	src := ":02000000AABB00\n:00000001FF\n:02000200CCDD00\n"
	sink := fakeSink{}
	if err := Load(strings.NewReader(src), sink, 0); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := sink[0x0002]; ok {
		t.Fatal("Load() must not process records after the EOF record")
	}
}

func TestLoadIgnoresEmbeddedAddressField(t *testing.T) {
	// The record claims address 0x0050, but the writer's cursor always
	// starts at base and advances sequentially, matching the reference
	// loader's behavior of never seeking to the record's own address.
	src := ":02005000AABB00\n:00000001FF\n"
	sink := fakeSink{}
	if err := Load(strings.NewReader(src), sink, 0x2000); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := sink[0x0050]; ok {
		t.Fatal("Load() must not honor the record's embedded address field")
	}
	if sink[0x2000] != 0xBB || sink[0x2001] != 0xAA {
		t.Fatalf("sink[0x2000:0x2002] = %02X %02X, want BB AA", sink[0x2000], sink[0x2001])
	}
}

func TestLoadRejectsMissingColon(t *testing.T) {
	err := Load(strings.NewReader("02000000AABB00\n"), fakeSink{}, 0)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("Load() error = %v, want ErrMalformedRecord", err)
	}
}

func TestLoadRejectsByteCountMismatch(t *testing.T) {
	// byteCount claims 4 bytes but only 2 are present.
	err := Load(strings.NewReader(":04000000AABB00\n"), fakeSink{}, 0)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("Load() error = %v, want ErrMalformedRecord", err)
	}
}

func TestLoadRejectsOddDigitCountRecord(t *testing.T) {
	src := ":02000000112200\n:0200000033440\n:00000001FF\n"
	// second record intentionally malformed (odd digit count) to confirm
	// the parser rejects it rather than silently misreading.
	sink := fakeSink{}
	err := Load(strings.NewReader(src), sink, 0)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("Load() error = %v, want ErrMalformedRecord for the odd-length line", err)
	}
}
