package z80

import "github.com/master-g/corecade/bus"

// reg8 indices follow Z80 encoding: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
// Index 6 requires a bus access and is handled by the caller specially
// wherever it changes an instruction's cycle count.

func (c *CPU) reg8Name(i uint8) *uint8 {
	switch i & 7 {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	return nil
}

const tM1 = 4
const tMR = 3
const tMW = 3
const tIO = 4

func (c *CPU) addT(n int) { c.tCount += n }

// TStates returns the T-states counted since the last Reset or
// ResetTStates. Only the 3-T-state memory cycles of (HL) operands
// (readR8/writeR8 and LD (HL),n) are counted; opcode fetches, other
// operand and stack accesses, I/O and internal cycles add nothing.
func (c *CPU) TStates() int { return c.tCount }

// ResetTStates zeroes the counter without touching register state,
// letting a test measure one instruction in isolation.
func (c *CPU) ResetTStates() { c.tCount = 0 }

func (c *CPU) readR8(b bus.Bus, m bus.Master, i uint8) uint8 {
	if i&7 == 6 {
		c.addT(tMR)
		return b.Read(m, c.hl())
	}
	return *c.reg8Name(i)
}

func (c *CPU) writeR8(b bus.Bus, m bus.Master, i uint8, v uint8) {
	if i&7 == 6 {
		c.addT(tMW)
		b.Write(m, c.hl(), v)
		return
	}
	*c.reg8Name(i) = v
}
