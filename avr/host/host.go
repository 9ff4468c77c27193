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

// Package host declares the collaborator interface the engine calls out to.
// It plays the role mgnes/pkg/mg6502's injected Reader/Writer bus plays for
// the NES CPU: the core never imports a concrete host, it only calls through
// this interface, so callers (a CLI, a browser build, a test) can supply
// whatever sink makes sense for them.
package host

// Host receives the synchronous, in-line callbacks the engine makes while
// executing. Implementations must not call back into the engine.
type Host interface {
	// Print surfaces a diagnostic line.
	Print(msg string)
	// PortWrite fires when a PORT register is written (DDR writes do not
	// fire it). portIndex is
	// 0 for PORTB, 1 for PORTC, 2 for PORTD, and on the 32U4 also 3 for
	// PORTE and 4 for PORTF.
	PortWrite(portIndex int, value uint8)
	// SpiWrite fires when the SPI data register is written.
	SpiWrite(value uint8)
	// RefreshUI is invoked once per fetchN batch; implementations that
	// don't render anything can make it a no-op.
	RefreshUI()
}

// Nop is a zero-value-safe Host that discards everything. It plays the same
// role as mgnes/log.go's defaultLogger: the safe fallback a caller gets
// without having to wire up anything.
type Nop struct{}

func (Nop) Print(string)         {}
func (Nop) PortWrite(int, uint8) {}
func (Nop) SpiWrite(uint8)       {}
func (Nop) RefreshUI()           {}

var _ Host = Nop{}
