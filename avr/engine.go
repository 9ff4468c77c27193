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

// Package avr implements the instruction-level AVR emulation core: the
// opcode decoder, the ALU/branch/transfer semantics, the status-flag
// discipline, the memory-mapped I/O hooks and the timer-interrupt
// injection. It is deliberately ignorant of where its program image comes
// from (see avr/ihex) and of what a "host" does with port writes (see
// avr/host) — exactly the boundary mgnes/pkg/mg6502 draws between the CPU
// and its injected Reader/Writer bus.
package avr

import (
	"errors"
	"fmt"
	"time"

	"github.com/blakewford/avrcore/avr/host"
	"github.com/blakewford/avrcore/avr/target"
)

// ErrUnimplementedOpcode is returned by Fetch when the decoder falls
// through every known instruction family. It is always wrapped with the PC
// and opcode bytes that triggered it.
var ErrUnimplementedOpcode = errors.New("avr: unimplemented opcode")

// timerInterval is how many cumulative fetched instructions separate two
// Timer/Counter0 overflow interrupt injections (spec.md §4.5).
const timerInterval = 1024

// Engine is the AVR execution core: registers (folded into Mem[0:32]), the
// unified address space, the status register, and the bookkeeping needed to
// inject periodic timer interrupts and detect the two flavors of program
// termination.
type Engine struct {
	Mem    Memory
	SREG   SREG
	PC     uint16
	Target target.Target
	Host   host.Host
	Logger Logger

	// LogEnable gates the per-instruction trace line Fetch sends to Logger,
	// mirroring mgnes/log.go's SetLogEnable switch.
	LogEnable bool

	// Pace, when non-zero, is slept after every fetched instruction as a
	// host pacing mechanism — elided by default so tests and profiling
	// runs aren't artificially slowed down. Grounded on the
	// std::this_thread::sleep_until call in original_source/main.cpp.
	Pace time.Duration

	// branchEqual and branchGreater are the signed-comparison side-facts
	// CP/CPC/CPI/SUB/SUBI compute and BRGE/BRLT consume, compensating for
	// the approximate V flag (spec.md §3, §9).
	branchEqual   bool
	branchGreater bool

	instrCount uint64
}

// New constructs an Engine for the given target, wired to host for its
// synchronous callbacks. A nil host is replaced with host.Nop{}.
func New(t target.Target, h host.Host) *Engine {
	if h == nil {
		h = host.Nop{}
	}
	e := &Engine{
		Target: t,
		Host:   h,
		Logger: defaultLogger,
	}
	e.Init()
	return e
}

// Init resets SREG, PC, SP and the peripheral "ready" bits, exactly as
// original_source/main.cpp's engineInit(): SP starts one below the
// program's entry point, and SPSR.SPIF is primed set.
func (e *Engine) Init() {
	e.SREG = SREG{}
	e.PC = e.Target.Entry
	e.branchEqual = false
	e.branchGreater = false
	e.instrCount = 0

	sp := e.Target.Entry - 1
	// This is the one place the engine writes an I/O-mapped address
	// directly instead of through writeMemory: SP initialization predates
	// any peripheral state worth synthesizing a side effect for.
	e.Mem[e.Target.SPH] = uint8(sp >> 8)
	e.Mem[e.Target.SPL] = uint8(sp)
	e.Mem[e.Target.SPSR] = spifBit
}

// SP returns the current stack pointer, materialized from SPH:SPL.
func (e *Engine) SP() uint16 {
	return uint16(e.Mem[e.Target.SPH])<<8 | uint16(e.Mem[e.Target.SPL])
}

func (e *Engine) setSP(v uint16) {
	e.Mem[e.Target.SPH] = uint8(v >> 8)
	e.Mem[e.Target.SPL] = uint8(v)
}

// pushByte stores data at SP, then decrements SP.
func (e *Engine) pushByte(data uint8) {
	e.Mem[e.SP()] = data
	e.setSP(e.SP() - 1)
}

// popByte increments SP, then loads from SP.
func (e *Engine) popByte() uint8 {
	e.setSP(e.SP() + 1)
	return e.Mem[e.SP()]
}

// pushPC pushes the return address low byte first, then high byte —
// hardware order. spec.md §9 flags the source's high-then-low order as a
// defect that breaks RETI's reconstruction of PC; this is the corrected
// order, shared by RCALL/CALL/interrupt injection.
func (e *Engine) pushPC(pc uint16) {
	e.pushByte(uint8(pc))
	e.pushByte(uint8(pc >> 8))
}

// popPC is the mirror of pushPC: pop high, then low.
func (e *Engine) popPC() uint16 {
	hi := e.popByte()
	lo := e.popByte()
	return uint16(hi)<<8 | uint16(lo)
}

// Fetch executes exactly one instruction. It returns false (with a nil
// error) on the two clean termination conditions from spec.md §4.6: falling
// off the end of flash, or landing on BREAK. It returns false with a
// wrapped ErrUnimplementedOpcode if the decoder can't classify the opcode.
// The rjmp .-2 spin-forever sentinel is treated identically to BREAK.
func (e *Engine) Fetch() (bool, error) {
	if e.PC >= uint16(e.Target.FlashSize) {
		return false, nil
	}

	hi, lo := e.Mem[e.PC], e.Mem[e.PC+1]
	if hi == 0x95 && lo == 0x98 { // BREAK
		return false, nil
	}
	if hi == 0xCF && lo == 0xFF { // rjmp .-2
		return false, nil
	}

	if !e.dispatch(hi, lo) {
		return false, fmt.Errorf("%w at 0x%04X (0x%02X%02X)", ErrUnimplementedOpcode, e.PC, hi, lo)
	}

	e.resetPeripheralFlags()
	if e.LogEnable {
		e.Logger.Log(e.traceLine(hi, lo))
	}
	e.instrCount++
	if e.Pace > 0 {
		time.Sleep(e.Pace)
	}
	return true, nil
}

// traceLine formats a single opcode-level trace record: cumulative
// instruction count, the PC the opcode was fetched from, the raw opcode
// bytes, and the committed SREG flags in the same C..I bit order Byte()
// packs them in, matching the shape of mg6502.go's clock-count/PC/flags
// trace line.
func (e *Engine) traceLine(hi, lo byte) string {
	flags := "CZNVSHTI"
	bits := []bool{e.SREG.C, e.SREG.Z, e.SREG.N, e.SREG.V, e.SREG.S, e.SREG.H, e.SREG.T, e.SREG.I}
	shown := make([]byte, len(flags))
	for i, c := range flags {
		if bits[i] {
			shown[i] = byte(c)
		} else {
			shown[i] = '.'
		}
	}
	return fmt.Sprintf("%10d PC:%04X OP:%02X%02X %s", e.instrCount, e.PC, hi, lo, shown)
}

// InstrCount returns the number of instructions Fetch has committed since
// the last Init, for --profile's ns-per-instruction figure.
func (e *Engine) InstrCount() uint64 {
	return e.instrCount
}

// FetchN runs up to n instructions, stopping early on termination or error,
// and injects a Timer/Counter0 overflow interrupt for every multiple of
// timerInterval crossed by the engine's cumulative instruction count while
// this batch runs (spec.md §4.5). Injecting the whole batch's worth of
// interrupts up front, before any of the n instructions execute, is what
// makes a single FetchN(2048) call on a no-op loop produce exactly two
// pushes and two jumps to the timer ISR (spec.md §8 scenario 6): the
// interrupt count for a batch is determined entirely by how many 1024
// boundaries start..start+n crosses, independent of how many of those n
// instructions the program actually goes on to execute before halting.
func (e *Engine) FetchN(n int) (bool, error) {
	before := e.instrCount / timerInterval
	after := (e.instrCount + uint64(n)) / timerInterval
	for i := before; i < after; i++ {
		e.callTimerOverflowInterrupt()
	}

	ok := true
	var err error
	for ; ok && err == nil && n > 0; n-- {
		ok, err = e.Fetch()
	}
	e.Host.RefreshUI()
	return ok, err
}

// callTimerOverflowInterrupt pushes the current PC and redirects execution
// to the target's timer ISR vector. No flags are touched; the user
// program's RETI unwinds it normally.
func (e *Engine) callTimerOverflowInterrupt() {
	e.pushPC(e.PC)
	e.PC = e.Target.TimerISR + e.Target.Entry
}
