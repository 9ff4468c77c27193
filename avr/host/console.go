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

package host

import "fmt"

// Console is the Host cmd/avrmu wires up by default: diagnostics go to
// stdout, port writes are recorded so --watch can render them, and
// RefreshUI is left a no-op outside of the termui view.
type Console struct {
	// PortState holds the last value written to each of PORTB..PORTF
	// (indices 0..4), for the watch view to render.
	PortState [5]uint8
	SPIState  uint8
}

// NewConsole constructs a ready-to-use Console.
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Print(msg string) {
	fmt.Println(msg)
}

func (c *Console) PortWrite(portIndex int, value uint8) {
	if portIndex >= 0 && portIndex < len(c.PortState) {
		c.PortState[portIndex] = value
	}
}

func (c *Console) SpiWrite(value uint8) {
	c.SPIState = value
}

func (c *Console) RefreshUI() {}

var _ Host = (*Console)(nil)
