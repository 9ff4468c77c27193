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

func TestLoadDemoRunsToBreak(t *testing.T) {
	e := newTestEngine()
	e.LoadDemo()

	for i := 0; i < 200; i++ {
		ok, err := e.Fetch()
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !ok {
			if e.Mem[e.PC] != 0x95 || e.Mem[e.PC+1] != 0x98 {
				t.Fatalf("program halted at 0x%04X on a non-BREAK opcode", e.PC)
			}
			return
		}
	}
	t.Fatal("demo program did not halt within 200 instructions")
}

func TestLoadDemoPokesPortB(t *testing.T) {
	e := newTestEngine()
	h := e.Host.(*recordingHost)
	e.LoadDemo()

	for i := 0; i < 200; i++ {
		ok, err := e.Fetch()
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !ok {
			break
		}
	}
	if h.ports[0] != 0x01 {
		t.Fatalf("PORTB after demo program = 0x%02X, want 0x01", h.ports[0])
	}
}
