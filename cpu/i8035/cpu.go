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

// Package i8035 implements a cycle-stepped Intel 8035/8048 (MCS-48)
// core: the sound/IO microcontroller riding alongside the main CPU on
// Donkey Kong. Registers live in a bank of internal
// RAM rather than a dedicated file, program memory is 12-bit
// addressed, and ordinary memory-mapped I/O is replaced by a handful
// of synthetic port addresses routed through Bus.IORead/IOWrite.
package i8035

import "github.com/master-g/corecade/bus"

// PswFlag bits.
const (
	PswCY uint8 = 0x80
	PswAC uint8 = 0x40
	PswF0 uint8 = 0x20
	PswBS uint8 = 0x10
)

// Synthetic I/O port addresses a machine's Bus.IORead/IOWrite must
// decode for this core.
const (
	PortBus uint16 = 0x100
	PortP1  uint16 = 0x101
	PortP2  uint16 = 0x102
	PortP4  uint16 = 0x104
	PortP5  uint16 = 0x105
	PortP6  uint16 = 0x106
	PortP7  uint16 = 0x107
	PortT0  uint16 = 0x110
	PortT1  uint16 = 0x111
)

type execKind uint8

const (
	stateFetch execKind = iota
	stateExecute
	stateInterrupt
	stateStopped
)

type execState struct {
	kind   execKind
	opcode uint8
	cycle  int
}

// CPU is the 8035 register file, internal RAM, and execution
// micro-state.
type CPU struct {
	A    uint8
	PC   uint16
	PSW  uint8
	F1   bool
	T    uint8
	DBBB uint8
	P1   uint8
	P2   uint8

	RAM     [256]uint8
	ramMask uint8

	a11        bool
	a11Pending bool

	timerEnabled   bool
	counterEnabled bool
	timerOverflow  bool
	t1Prev         bool

	intEnabled      bool
	tcntiEnabled    bool
	inInterrupt     bool
	irqPending      bool
	timerIRQPending bool

	state    execState
	opcode   uint8
	tempData uint8
}

// New constructs an 8035 with its 64-byte internal RAM (the 8048's
// larger 256-byte RAM is also representable; ramMask selects which).
func New() *CPU {
	return &CPU{DBBB: 0xFF, P1: 0xFF, P2: 0xFF, ramMask: 0x3F}
}

func (c *CPU) Reset(b bus.Bus, master bus.Master) {
	c.PC = 0
	c.PSW = 0
	c.a11, c.a11Pending = false, false
	c.timerEnabled, c.counterEnabled, c.timerOverflow = false, false, false
	c.intEnabled, c.tcntiEnabled = false, false
	c.inInterrupt, c.irqPending, c.timerIRQPending = false, false, false
	c.state = execState{kind: stateFetch}
}

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.PSW |= mask
	} else {
		c.PSW &^= mask
	}
}

func (c *CPU) flagSet(mask uint8) bool { return c.PSW&mask != 0 }

// State exposes the current ExecState for tests and the debugger.
func (c *CPU) State() (fetch bool, opcode uint8, cycle int) {
	return c.state.kind == stateFetch, c.state.opcode, c.state.cycle
}

// regBankOffset returns the RAM base address of the active register
// bank: bank 0 at 0x00-0x07, bank 1 at 0x18-0x1F (selected by PSW.BS).
func (c *CPU) regBankOffset() uint8 {
	if c.PSW&PswBS != 0 {
		return 0x18
	}
	return 0x00
}

func (c *CPU) getReg(n uint8) uint8 {
	addr := c.regBankOffset() + (n & 0x07)
	return c.RAM[addr&c.ramMask]
}

func (c *CPU) setReg(n, v uint8) {
	addr := c.regBankOffset() + (n & 0x07)
	c.RAM[addr&c.ramMask] = v
}

func (c *CPU) readRAM(addr uint8) uint8   { return c.RAM[addr&c.ramMask] }
func (c *CPU) writeRAM(addr, v uint8)     { c.RAM[addr&c.ramMask] = v }

// pushPCPSW pushes PC and the PSW upper nibble onto the internal
// 8-entry stack living at RAM 0x08-0x17. Entry layout: byte0 = PC[7:0],
// byte1 = PSW[7:4] | PC[11:8].
func (c *CPU) pushPCPSW() {
	sp := c.PSW & 0x07
	addr := 2*sp + 8
	c.writeRAM(addr, uint8(c.PC))
	c.writeRAM(addr+1, uint8(c.PC>>8)&0x0F|(c.PSW&0xF0))
	c.PSW = (c.PSW &^ 0x07) | ((sp + 1) & 0x07)
}

// popPCPSW pops PC, optionally restoring PSW's flag nibble (RETR does,
// RET does not).
func (c *CPU) popPCPSW(restorePSW bool) {
	sp := (c.PSW&0x07 - 1) & 0x07
	c.PSW = (c.PSW &^ 0x07) | sp
	addr := 2*sp + 8
	lo := c.readRAM(addr)
	hi := c.readRAM(addr + 1)
	c.PC = uint16(hi&0x0F)<<8 | uint16(lo)
	if restorePSW {
		c.PSW = (c.PSW & 0x0F) | (hi & 0xF0)
	}
}

func (c *CPU) incrementT() {
	overflow := c.T == 0xFF
	c.T++
	if overflow {
		c.timerOverflow = true
		if c.tcntiEnabled {
			c.timerIRQPending = true
		}
	}
}

// tickTimerCounter advances the T register once per machine cycle in
// timer mode, or on a T1 falling edge in counter mode.
func (c *CPU) tickTimerCounter(b bus.Bus, master bus.Master) {
	if c.timerEnabled {
		c.incrementT()
	}
	if c.counterEnabled {
		t1 := b.IORead(master, PortT1) != 0
		if c.t1Prev && !t1 {
			c.incrementT()
		}
		c.t1Prev = t1
	}
}

// TickWithBus runs exactly one machine cycle.
func (c *CPU) TickWithBus(b bus.Bus, master bus.Master) bool {
	switch c.state.kind {
	case stateFetch:
		if c.handleInterrupts() {
			c.tickTimerCounter(b, master)
			return false
		}
		c.opcode = b.Read(master, c.PC)
		c.PC = (c.PC + 1) & 0x0FFF
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 0}
		c.dispatch(c.opcode, 0, b, master)
		c.tickTimerCounter(b, master)
		return c.state.kind == stateFetch
	case stateExecute:
		c.dispatch(c.state.opcode, 1, b, master)
		c.tickTimerCounter(b, master)
		return c.state.kind == stateFetch
	case stateInterrupt:
		c.stepInterrupt(c.state.cycle)
		c.tickTimerCounter(b, master)
		return c.state.kind == stateFetch
	}
	return true
}

// handleInterrupts checks pending interrupts at an instruction
// boundary. Priority: external INT over timer/counter overflow.
func (c *CPU) handleInterrupts() bool {
	if c.intEnabled && !c.inInterrupt {
		// External interrupt is sampled by the machine via
		// bus.InterruptState.IRQ at the caller's discretion; machine/dkong
		// routes it through SignalExternalIRQ before each sound-CPU tick.
		if c.irqPending {
			c.state = execState{kind: stateInterrupt}
			return true
		}
	}
	if c.tcntiEnabled && c.timerIRQPending && !c.inInterrupt {
		c.state = execState{kind: stateInterrupt}
		return true
	}
	return false
}

// SignalExternalIRQ lets the machine assert the INT pin before a
// Fetch tick, since this core has no CheckInterrupts callback wired
// into handleInterrupts (MCS-48 INT is a level, not routed through the
// shared bus.InterruptState shape the 8-bit home-computer CPUs use).
func (c *CPU) SignalExternalIRQ(asserted bool) {
	if c.intEnabled && asserted {
		c.irqPending = true
	}
}

func (c *CPU) stepInterrupt(cycle int) {
	switch cycle {
	case 0:
		c.pushPCPSW()
		c.intEnabled = false
		c.inInterrupt = true
		c.state = execState{kind: stateInterrupt, cycle: 1}
	case 1:
		if c.irqPending {
			c.irqPending = false
			c.PC = 0x003
		} else if c.timerIRQPending {
			c.timerIRQPending = false
			c.PC = 0x007
		}
		c.state = execState{kind: stateFetch}
	default:
		c.state = execState{kind: stateFetch}
	}
}
