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

package main

import (
	"fmt"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/blakewford/avrcore/avr"
	"github.com/blakewford/avrcore/avr/host"
)

// watchHost wraps a Console so FetchN's RefreshUI callback drives the
// termui redraw directly, the same role plainbus.go's bus plays for
// cmd/pure6502's cpu.Clock loop — the engine never knows it's being
// watched, it just calls a Host method.
type watchHost struct {
	*host.Console
	draw func()
}

func (w watchHost) RefreshUI() {
	w.draw()
}

var (
	paragraphRegs  *widgets.Paragraph
	paragraphSREG  *widgets.Paragraph
	paragraphPorts *widgets.Paragraph
	paragraphTips  *widgets.Paragraph
)

func initWatchLayout() {
	paragraphRegs = widgets.NewParagraph()
	paragraphRegs.Title = "Registers"
	paragraphRegs.SetRect(0, 0, 50, 14)

	paragraphSREG = widgets.NewParagraph()
	paragraphSREG.Title = "SREG / PC / SP"
	paragraphSREG.SetRect(50, 0, 90, 8)

	paragraphPorts = widgets.NewParagraph()
	paragraphPorts.Title = "Ports"
	paragraphPorts.SetRect(50, 8, 90, 14)

	paragraphTips = widgets.NewParagraph()
	paragraphTips.Title = "Tips"
	paragraphTips.SetRect(0, 14, 90, 17)
}

func renderRegs(p *widgets.Paragraph, e *avr.Engine) {
	sb := &strings.Builder{}
	for row := 0; row < 8; row++ {
		sb.WriteString(fmt.Sprintf("r%-2d-r%-2d:", row*4, row*4+3))
		for col := 0; col < 4; col++ {
			sb.WriteString(fmt.Sprintf(" %02X", e.Mem[row*4+col]))
		}
		sb.WriteRune('\n')
	}
	p.Text = sb.String()
}

func renderSREG(p *widgets.Paragraph, e *avr.Engine) {
	flags := []struct {
		name string
		set  bool
	}{
		{"I", e.SREG.I}, {"T", e.SREG.T}, {"H", e.SREG.H}, {"S", e.SREG.S},
		{"V", e.SREG.V}, {"N", e.SREG.N}, {"Z", e.SREG.Z}, {"C", e.SREG.C},
	}
	sb := &strings.Builder{}
	for _, f := range flags {
		color := "red"
		if f.set {
			color = "green"
		}
		sb.WriteString(fmt.Sprintf("[%s](fg:%s) ", f.name, color))
	}
	sb.WriteRune('\n')
	sb.WriteString(fmt.Sprintf("PC: 0x%04X\n", e.PC))
	sb.WriteString(fmt.Sprintf("SP: 0x%04X\n", e.SP()))
	p.Text = sb.String()
}

func renderPorts(p *widgets.Paragraph, c *host.Console) {
	sb := &strings.Builder{}
	names := []string{"B", "C", "D", "E", "F"}
	for i, name := range names {
		sb.WriteString(fmt.Sprintf("PORT%s: 0x%02X\n", name, c.PortState[i]))
	}
	p.Text = sb.String()
}

func renderTips(p *widgets.Paragraph) {
	p.Text = "SPACE = step 1024 instructions    Q = quit"
}

// watch opens a live termui dashboard and drives the engine one batch at a
// time as the user presses Space, grounded on cmd/pure6502/main.go's
// widgets.NewParagraph()/ui.Init()/ui.PollEvents() loop.
func watch(e *avr.Engine, console *host.Console) error {
	if err := ui.Init(); err != nil {
		return err
	}
	defer ui.Close()

	initWatchLayout()

	draw := func() {
		renderRegs(paragraphRegs, e)
		renderSREG(paragraphSREG, e)
		renderPorts(paragraphPorts, console)
		renderTips(paragraphTips)
		ui.Render(paragraphRegs, paragraphSREG, paragraphPorts, paragraphTips)
	}
	e.Host = watchHost{Console: console, draw: draw}

	draw()
	for evt := range ui.PollEvents() {
		if evt.Type != ui.KeyboardEvent {
			continue
		}
		switch evt.ID {
		case "q", "Q", "<C-c>":
			return nil
		case "<Space>":
			if ok, err := e.FetchN(fetchBatch); err != nil || !ok {
				draw()
				return err
			}
		}
	}
	return nil
}
