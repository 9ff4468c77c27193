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

import (
	"strings"
	"testing"
)

func TestLoadHexWritesAtEntryAndResetsPC(t *testing.T) {
	e := newTestEngine()
	// eor r1,r1 ; break, hex-encoded with each instruction word's bytes
	// swapped within its own pair, matching how the loader reconstructs the
	// byte-swapped flash layout.
	src := ":040000001124989500\n:00000001FF\n"
	if err := e.LoadHex(strings.NewReader(src)); err != nil {
		t.Fatalf("LoadHex() error = %v", err)
	}
	if e.PC != e.Target.Entry {
		t.Fatalf("PC after LoadHex = 0x%04X, want entry 0x%04X", e.PC, e.Target.Entry)
	}
	if e.Mem[e.Target.Entry] != 0x24 || e.Mem[e.Target.Entry+1] != 0x11 {
		t.Fatalf("flash[entry:entry+2] = %02X %02X, want 24 11", e.Mem[e.Target.Entry], e.Mem[e.Target.Entry+1])
	}
	if e.Mem[e.Target.Entry+2] != 0x95 || e.Mem[e.Target.Entry+3] != 0x98 {
		t.Fatalf("flash[entry+2:entry+4] = %02X %02X, want 95 98", e.Mem[e.Target.Entry+2], e.Mem[e.Target.Entry+3])
	}

	ok, err := e.Fetch()
	if err != nil {
		t.Fatalf("Fetch() eor error = %v", err)
	}
	if !ok {
		t.Fatal("Fetch() on eor r1,r1 = false, want true")
	}
	ok, err = e.Fetch()
	if err != nil {
		t.Fatalf("Fetch() break error = %v", err)
	}
	if ok {
		t.Fatal("Fetch() on break = true, want false")
	}
}
