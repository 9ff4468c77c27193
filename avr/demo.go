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

// demoByte is one sparse (entry-relative offset, value) pair of the
// fallback program. The underlying routine is avr-gcc's own Arduino
// bootstrap sequence (clear r1, zero SREG, set up the stack, call main) for
// a main() that pokes PORTB then halts on BREAK — grounded byte-for-byte on
// loadDefaultProgram() in original_source/main.cpp, with addresses rebased
// from ATmega32U4's fixed 0xB00 entry to an offset any target's Entry can
// be added to.
type demoByte struct {
	offset uint16
	value  uint8
}

var demoProgram = []demoByte{
	{0x000, 0x94}, {0x001, 0x0C}, {0x002, 0x00}, {0x003, 0x56}, // jmp 0xAC
	{0x0AC, 0x24}, {0x0AD, 0x11}, // eor r1,r1
	{0x0AE, 0xBE}, {0x0AF, 0x1F}, // out SREG,r1
	{0x0B0, 0xEF}, {0x0B1, 0xCF}, // ldi r28,0xFF
	{0x0B2, 0xE0}, {0x0B3, 0xDA}, // ldi r29,0x0A
	{0x0B4, 0xBF}, {0x0B5, 0xDE}, // out SPH,r29
	{0x0B6, 0xBF}, {0x0B7, 0xCD}, // out SPL,r28
	{0x0B8, 0x94}, {0x0B9, 0x0E}, {0x0BA, 0x00}, {0x0BB, 0x62}, // call 0xC4
	{0x0C4, 0x93}, {0x0C5, 0xCF}, // push r28
	{0x0C6, 0x93}, {0x0C7, 0xDF}, // push r29
	{0x0C8, 0xB7}, {0x0C9, 0xCD}, // in r28,SPL
	{0x0CA, 0xB7}, {0x0CB, 0xDE}, // in r29,SPH
	{0x0CC, 0xE2}, {0x0CD, 0x84}, // ldi r24,0x24
	{0x0CE, 0xE0}, {0x0CF, 0x90}, // ldi r25,0x00
	{0x0D0, 0xE0}, {0x0D1, 0x28}, // ldi r18,0x08
	{0x0D2, 0x01}, {0x0D3, 0xFC}, // movw r30,r24
	{0x0D4, 0x83}, {0x0D5, 0x20}, // st Z,r18
	{0x0D6, 0xE2}, {0x0D7, 0x85}, // ldi r24,0x25
	{0x0D8, 0xE0}, {0x0D9, 0x90}, // ldi r25,0x00
	{0x0DA, 0xE0}, {0x0DB, 0x21}, // ldi r18,0x01
	{0x0DC, 0x01}, {0x0DD, 0xFC}, // movw r30,r24
	{0x0DE, 0x83}, {0x0DF, 0x20}, // st Z,r18
	{0x0E0, 0x95}, {0x0E1, 0x98}, // break
}

// LoadDemo writes the built-in fallback program into e.Mem, rebased at the
// engine's target entry point, and resets PC to it.
func (e *Engine) LoadDemo() {
	for _, b := range demoProgram {
		e.Mem[e.Target.Entry+b.offset] = b.value
	}
	e.PC = e.Target.Entry
}
