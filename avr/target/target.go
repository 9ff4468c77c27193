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

// Package target holds the memory-map constants that differ between the two
// AVR parts the emulator supports. Keeping them out of the core engine
// mirrors the way the NES teacher keeps mapper/header numbers in pkg/ines and
// pkg/mappers instead of baking them into the CPU.
package target

// Name identifies the supported AVR parts.
type Name string

const (
	ATmega32U4Name Name = "32u4"
	ATmega328Name  Name = "328"
)

// Target carries the memory-mapped I/O addresses and reset constants for one
// AVR part. Fields shared by both supported parts sit at the top; fields
// specific to one part are zero on the other (PLLCSR, PortE/PortF have no
// ATmega328 equivalent).
type Target struct {
	Name Name

	FlashSize int
	Entry     uint16
	TimerISR  uint16

	IOBase uint16

	SREG   uint16
	SPH    uint16
	SPL    uint16
	SPMCSR uint16
	SDR    uint16
	SPSR   uint16
	TCNT0  uint16
	TIFR0  uint16
	PortB  uint16
	PortC  uint16
	PortD  uint16
	ADCSRA uint16
	ADCH   uint16
	ADCL   uint16

	// 32U4-only
	PortE  uint16
	PortF  uint16
	PLLCSR uint16
	UCSR1A uint16

	// 328-only
	UCSR0A uint16
}

const flashSize = 32 * 1024

// ATmega32U4 returns the memory map used by the Arduino Leonardo/Micro family.
func ATmega32U4() Target {
	return Target{
		Name:      ATmega32U4Name,
		FlashSize: flashSize,
		Entry:     0xB00,
		TimerISR:  0x5C,

		IOBase: 0x20,

		SREG:   0x5F,
		SPH:    0x5E,
		SPL:    0x5D,
		SPMCSR: 0x57,
		SDR:    0x4E,
		SPSR:   0x4D,
		TCNT0:  0x46,
		TIFR0:  0x35,
		PortB:  0x25,
		PortC:  0x28,
		PortD:  0x2B,
		ADCSRA: 0x7A,
		ADCH:   0x79,
		ADCL:   0x78,

		PortE:  0x2E,
		PortF:  0x31,
		PLLCSR: 0x49,
		UCSR1A: 0xC8,
	}
}

// ATmega328 returns the memory map used by the Arduino Uno family.
func ATmega328() Target {
	return Target{
		Name:      ATmega328Name,
		FlashSize: flashSize,
		Entry:     0x900,
		TimerISR:  0x40,

		IOBase: 0x20,

		SREG:   0x5F,
		SPH:    0x5E,
		SPL:    0x5D,
		SPMCSR: 0x57,
		SDR:    0x4E,
		SPSR:   0x4D,
		TCNT0:  0x46,
		TIFR0:  0x35,
		PortB:  0x25,
		PortC:  0x28,
		PortD:  0x2B,
		ADCSRA: 0x7A,
		ADCH:   0x79,
		ADCL:   0x78,

		UCSR0A: 0xC0,
	}
}

// ByName resolves a target by its CLI flag spelling.
func ByName(name string) (Target, bool) {
	switch Name(name) {
	case ATmega32U4Name, "":
		return ATmega32U4(), true
	case ATmega328Name:
		return ATmega328(), true
	default:
		return Target{}, false
	}
}

// HasPortE reports whether the part exposes PORTE/PORTF (32U4 only).
func (t Target) HasPortE() bool {
	return t.PortE != 0
}
