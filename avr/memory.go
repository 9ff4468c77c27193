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

const (
	// FlashSize is the size of the unified address space: registers, I/O,
	// SRAM and flash all live in the same 32 KiB byte array, exactly as
	// the source's "memory[ATMEGA32U4_FLASH_SIZE]" does. One array is
	// deliberate: LD/ST can reach I/O and SRAM through the same data-space
	// mapping, and LPM reads flash through the same address.
	FlashSize = 32 * 1024

	regX = 26
	regY = 28
	regZ = 30
)

// Memory is the flat, unified AVR address space.
type Memory [FlashSize]byte

// SetByte implements ihex.Sink, letting the loader write into an Engine's
// address space without avr/ihex importing this package.
func (m *Memory) SetByte(addr uint16, value uint8) {
	m[addr] = value
}

func (m *Memory) pair(lo int) uint16 {
	return uint16(m[lo]) | uint16(m[lo+1])<<8
}

func (m *Memory) setPair(lo int, v uint16) {
	m[lo] = uint8(v)
	m[lo+1] = uint8(v >> 8)
}

// X, Y, Z return the pointer register pairs (R26:R27, R28:R29, R30:R31),
// low byte at the lower address as spec.md §3 requires.
func (m *Memory) X() uint16 { return m.pair(regX) }
func (m *Memory) Y() uint16 { return m.pair(regY) }
func (m *Memory) Z() uint16 { return m.pair(regZ) }

func (m *Memory) setX(v uint16) { m.setPair(regX, v) }
func (m *Memory) setY(v uint16) { m.setPair(regY, v) }
func (m *Memory) setZ(v uint16) { m.setPair(regZ, v) }

// incPair increments a 16-bit register pair with 16-bit wraparound, used by
// the post-increment LD/ST addressing forms.
func (m *Memory) incPair(lo int) {
	m.setPair(lo, m.pair(lo)+1)
}

func (m *Memory) decPair(lo int) {
	m.setPair(lo, m.pair(lo)-1)
}
