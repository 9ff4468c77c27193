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

// readMemory synthesizes the handful of peripheral reads user code polls on:
// a fixed ADC conversion result and a perpetually-pending timer overflow
// flag. A read of the SREG address reports the committed flags via
// SREG.Byte. Everything else is a raw byte read, grounded on
// original_source/main.cpp's readMemory().
func (e *Engine) readMemory(addr uint16) uint8 {
	t := e.Target
	switch addr {
	case t.SREG:
		return e.SREG.Byte()
	case t.ADCH:
		return 0
	case t.ADCL:
		return 9
	case t.TIFR0:
		return e.Mem[addr] | tov0Bit
	default:
		return e.Mem[addr]
	}
}

const (
	tov0Bit  = 1 << 1 // TOV0 in TIFR0
	spifBit  = 1 << 7 // SPIF in SPSR
	udreBit  = 1 << 5 // UDRE in UCSRnA
	adscBit  = 1 << 6 // ADSC in ADCSRA
	sigrdBit = 1 << 5
	spmenBit = 1 << 0
	pllebit  = 1 << 2 // PLLE in PLLCSR
	plockBit = 1 << 0 // PLOCK in PLLCSR
)

// writeMemory always commits the byte, then fans out to whichever side
// effect the address triggers, matching spec.md §4.1's "stores value into
// memory[addr] first" discipline.
func (e *Engine) writeMemory(addr uint16, value uint8) {
	e.Mem[addr] = value
	t := e.Target

	switch addr {
	case t.PortB:
		e.Host.PortWrite(0, value)
	case t.PortC:
		e.Host.PortWrite(1, value)
	case t.PortD:
		e.Host.PortWrite(2, value)
	case t.PortE:
		if t.HasPortE() {
			e.Host.PortWrite(3, value)
		}
	case t.PortF:
		if t.HasPortE() {
			e.Host.PortWrite(4, value)
		}
	case t.SPMCSR:
		if value == sigrdBit|spmenBit {
			// Signature-row read: inject the manufacturer ID at the byte
			// following the Z pointer's flash location.
			sig := uint16(e.Mem.Z()) + uint16(t.Entry) + 1
			e.Mem[sig] = 0xBF
		}
	case t.SDR:
		e.Host.SpiWrite(value)
	case t.PLLCSR:
		if value&pllebit != 0 {
			e.Mem[addr] |= plockBit
		} else {
			e.Mem[addr] &^= plockBit
		}
	}
}

// resetPeripheralFlags clears/sets the polled "ready" bits after every
// committed instruction so busy-wait loops in user code terminate
// immediately, per spec.md §4.4.
func (e *Engine) resetPeripheralFlags() {
	t := e.Target
	e.Mem[t.ADCSRA] &^= adscBit
	e.Mem[t.SPSR] |= spifBit
	if t.UCSR1A != 0 {
		e.Mem[t.UCSR1A] |= udreBit
	}
	if t.UCSR0A != 0 {
		e.Mem[t.UCSR0A] |= udreBit
	}
}
