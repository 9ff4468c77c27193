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
	"testing"

	"github.com/blakewford/avrcore/avr/host"
	"github.com/blakewford/avrcore/avr/target"
)

// recordingHost captures every callback the engine makes, so tests can
// assert on port writes and UI refresh counts without a real terminal.
type recordingHost struct {
	prints    []string
	ports     [5]uint8
	spi       uint8
	refreshes int
}

func (r *recordingHost) Print(msg string)         { r.prints = append(r.prints, msg) }
func (r *recordingHost) PortWrite(i int, v uint8) { r.ports[i] = v }
func (r *recordingHost) SpiWrite(v uint8)         { r.spi = v }
func (r *recordingHost) RefreshUI()               { r.refreshes++ }

var _ host.Host = (*recordingHost)(nil)

func newTestEngine() *Engine {
	return New(target.ATmega32U4(), &recordingHost{})
}

// write places a two-byte instruction at pc, hi first then lo, matching the
// byte-swapped flash layout the decoder assumes.
func write(e *Engine, pc uint16, hi, lo byte) {
	e.Mem[pc] = hi
	e.Mem[pc+1] = lo
}

func TestInitSetsStackBelowEntry(t *testing.T) {
	e := newTestEngine()
	want := e.Target.Entry - 1
	if got := e.SP(); got != want {
		t.Fatalf("SP() = 0x%04X, want 0x%04X", got, want)
	}
	if e.PC != e.Target.Entry {
		t.Fatalf("PC = 0x%04X, want entry 0x%04X", e.PC, e.Target.Entry)
	}
}

func TestPushPopByteRoundTrip(t *testing.T) {
	e := newTestEngine()
	startSP := e.SP()
	e.pushByte(0x42)
	if e.SP() != startSP-1 {
		t.Fatalf("SP after push = 0x%04X, want 0x%04X", e.SP(), startSP-1)
	}
	if got := e.popByte(); got != 0x42 {
		t.Fatalf("popByte() = 0x%02X, want 0x42", got)
	}
	if e.SP() != startSP {
		t.Fatalf("SP after pop = 0x%04X, want 0x%04X", e.SP(), startSP)
	}
}

func TestPushPopPCRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.pushPC(0x1234)
	if got := e.popPC(); got != 0x1234 {
		t.Fatalf("popPC() = 0x%04X, want 0x1234", got)
	}
}

func TestFetchStopsOnBreak(t *testing.T) {
	e := newTestEngine()
	write(e, e.PC, 0x95, 0x98)
	ok, err := e.Fetch()
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if ok {
		t.Fatal("Fetch() on BREAK = true, want false")
	}
}

func TestFetchStopsOnSpinForever(t *testing.T) {
	e := newTestEngine()
	write(e, e.PC, 0xCF, 0xFF) // rjmp .-2
	ok, err := e.Fetch()
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if ok {
		t.Fatal("Fetch() on rjmp .-2 = true, want false")
	}
}

func TestFetchUnimplementedOpcodeWraps(t *testing.T) {
	e := newTestEngine()
	// 0xFF with lo&0xF == none of SBRS's range is unreachable since 0xFE/FF
	// fully covers SBRS; instead leave a gap at hi == 0xA0..0xAF is covered
	// by the displacement family too, so force a genuinely undecoded high
	// byte reserved by the map: none remain in 0x00-0xFF, so exercise the
	// wrapped-error path through a corrupted single byte instead.
	write(e, e.PC, 0x03, 0xFF) // MULSU requires lo&0x88==0, 0xFF fails that
	_, err := e.Fetch()
	if err == nil {
		t.Fatal("Fetch() on bad MULSU encoding = nil error, want ErrUnimplementedOpcode")
	}
}

func TestFetchNInjectsExactlyOneInterruptPerBoundaryCrossed(t *testing.T) {
	e := newTestEngine()
	write(e, e.PC, 0xCF, 0xFF) // rjmp .-2, never finishes on its own
	// The injected interrupts redirect PC to the timer ISR vector before any
	// instruction runs, so the vector spins too and the batch halts there.
	write(e, e.Target.TimerISR+e.Target.Entry, 0xCF, 0xFF)

	// Starting from a fresh instrCount, a single FetchN(2048) call spans two
	// 1024-boundaries and injects exactly two interrupts (spec.md §8
	// scenario 6), observed indirectly via two pushed return addresses on
	// the stack.
	startSP := e.SP()
	ok, err := e.FetchN(2048)
	if err != nil {
		t.Fatalf("FetchN() error = %v", err)
	}
	if ok {
		t.Fatal("FetchN() on a spin-forever program = true, want false (halted)")
	}
	pushed := startSP - e.SP()
	if pushed != 4 {
		t.Fatalf("bytes pushed by timer interrupts = %d, want 4 (two 2-byte PCs)", pushed)
	}
}

func TestFetchNRefreshesHostOncePerBatch(t *testing.T) {
	e := newTestEngine()
	h := e.Host.(*recordingHost)
	write(e, e.PC, 0x00, 0x00) // NOP
	if _, err := e.FetchN(1); err != nil {
		t.Fatalf("FetchN() error = %v", err)
	}
	if h.refreshes != 1 {
		t.Fatalf("RefreshUI calls = %d, want 1", h.refreshes)
	}
}

func TestWriteMemoryPortWriteFansOutToHost(t *testing.T) {
	e := newTestEngine()
	h := e.Host.(*recordingHost)
	e.writeMemory(e.Target.PortB, 0xAA)
	if h.ports[0] != 0xAA {
		t.Fatalf("host PortWrite(0) = 0x%02X, want 0xAA", h.ports[0])
	}
	if e.Mem[e.Target.PortB] != 0xAA {
		t.Fatal("writeMemory must commit the byte to memory, not just fan out to the host")
	}
}

func TestNewDefaultsNilHostToNop(t *testing.T) {
	e := New(target.ATmega32U4(), nil)
	e.writeMemory(e.Target.PortB, 0x01) // must not panic
}
