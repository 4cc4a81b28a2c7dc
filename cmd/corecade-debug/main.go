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

// corecade-debug is an interactive single-step TUI over a running
// machine: space/j advances one frame, q quits. It shows the machine
// name, frame count, frame rate and display size plus a one-line spew
// dump of the machine's state, stepping by whole frames rather than
// single opcodes.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/master-g/corecade/machine"
	"github.com/master-g/corecade/machine/dkong"
	"github.com/master-g/corecade/machine/pacman"
	"github.com/master-g/corecade/trace"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type model struct {
	m          machine.Machine
	name       string
	frameCount int
	lastErr    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.m.RunFrame()
			m.frameCount++
		}
	}
	return m, nil
}

func (m model) View() string {
	status := fmt.Sprintf("machine: %s\nframe:   %d\nrate:    %.2f Hz",
		m.name, m.frameCount, m.m.FrameRateHz())

	w, h := m.m.DisplaySize()
	dims := fmt.Sprintf("display: %dx%d", w, h)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("corecade-debug"),
		labelStyle.Render(status),
		labelStyle.Render(dims),
		"",
		trace.OneLine(m.m),
		"",
		labelStyle.Render("space/j: step one frame   q: quit"),
	)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: corecade-debug <pacman|dkong>")
		os.Exit(1)
	}

	name := os.Args[1]
	var m machine.Machine
	switch name {
	case "pacman":
		p := pacman.New()
		p.Reset()
		m = p
	case "dkong":
		d := dkong.New()
		d.Reset()
		m = d
	default:
		fmt.Fprintf(os.Stderr, "unknown machine %q (want pacman or dkong)\n", name)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(model{m: m, name: name}).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
