package i8035

import "github.com/master-g/corecade/bus"

// dispatch runs one machine cycle of the given opcode. cycle is 0 for
// an instruction's first (fetch) cycle, 1 for its second. Single-cycle
// instructions ignore cycle entirely and always return to Fetch.
func (c *CPU) dispatch(op uint8, cycle int, b bus.Bus, m bus.Master) {
	switch {
	case op == 0x00: // NOP
		c.state = execState{kind: stateFetch}
		return

	// ===== register/memory moves, 1 cycle =====
	case op >= 0xF8: // MOV A,Rn
		c.A = c.getReg(op & 0x07)
		c.state = execState{kind: stateFetch}
		return
	case op >= 0xA8 && op <= 0xAF: // MOV Rn,A
		c.setReg(op&0x07, c.A)
		c.state = execState{kind: stateFetch}
		return
	case op == 0xF0 || op == 0xF1: // MOV A,@Ri
		c.A = c.readRAM(c.getReg(op & 1))
		c.state = execState{kind: stateFetch}
		return
	case op == 0xA0 || op == 0xA1: // MOV @Ri,A
		c.writeRAM(c.getReg(op&1), c.A)
		c.state = execState{kind: stateFetch}
		return
	case op >= 0x28 && op <= 0x2F: // XCH A,Rn
		n := op & 0x07
		v := c.getReg(n)
		c.setReg(n, c.A)
		c.A = v
		c.state = execState{kind: stateFetch}
		return
	case op == 0x20 || op == 0x21: // XCH A,@Ri
		ri := c.getReg(op & 1)
		v := c.readRAM(ri)
		c.writeRAM(ri, c.A)
		c.A = v
		c.state = execState{kind: stateFetch}
		return
	case op == 0x30 || op == 0x31: // XCHD A,@Ri
		ri := c.getReg(op & 1)
		v := c.readRAM(ri)
		aLo, vLo := c.A&0x0F, v&0x0F
		c.A = (c.A & 0xF0) | vLo
		c.writeRAM(ri, (v&0xF0)|aLo)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x42: // MOV A,T
		c.A = c.T
		c.state = execState{kind: stateFetch}
		return
	case op == 0x62: // MOV T,A
		c.T = c.A
		c.state = execState{kind: stateFetch}
		return
	case op == 0xC7: // MOV A,PSW
		c.A = c.PSW
		c.state = execState{kind: stateFetch}
		return
	case op == 0xD7: // MOV PSW,A
		c.PSW = c.A
		c.state = execState{kind: stateFetch}
		return

	// ===== ALU, 1 cycle =====
	case op >= 0x68 && op <= 0x6F: // ADD A,Rn
		c.A = c.add(c.getReg(op&0x07), false)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x60 || op == 0x61: // ADD A,@Ri
		c.A = c.add(c.readRAM(c.getReg(op&1)), false)
		c.state = execState{kind: stateFetch}
		return
	case op >= 0x78 && op <= 0x7F: // ADDC A,Rn
		c.A = c.add(c.getReg(op&0x07), true)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x70 || op == 0x71: // ADDC A,@Ri
		c.A = c.add(c.readRAM(c.getReg(op&1)), true)
		c.state = execState{kind: stateFetch}
		return
	case op >= 0x58 && op <= 0x5F: // ANL A,Rn
		c.A &= c.getReg(op & 0x07)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x50 || op == 0x51: // ANL A,@Ri
		c.A &= c.readRAM(c.getReg(op & 1))
		c.state = execState{kind: stateFetch}
		return
	case op >= 0x48 && op <= 0x4F: // ORL A,Rn
		c.A |= c.getReg(op & 0x07)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x40 || op == 0x41: // ORL A,@Ri
		c.A |= c.readRAM(c.getReg(op & 1))
		c.state = execState{kind: stateFetch}
		return
	case op >= 0xD8 && op <= 0xDF: // XRL A,Rn
		c.A ^= c.getReg(op & 0x07)
		c.state = execState{kind: stateFetch}
		return
	case op == 0xD0 || op == 0xD1: // XRL A,@Ri
		c.A ^= c.readRAM(c.getReg(op & 1))
		c.state = execState{kind: stateFetch}
		return
	case op == 0x17: // INC A
		c.A++
		c.state = execState{kind: stateFetch}
		return
	case op == 0x07: // DEC A
		c.A--
		c.state = execState{kind: stateFetch}
		return
	case op == 0x27: // CLR A
		c.A = 0
		c.state = execState{kind: stateFetch}
		return
	case op == 0x37: // CPL A
		c.A = ^c.A
		c.state = execState{kind: stateFetch}
		return
	case op == 0x47: // SWAP A
		c.A = c.A<<4 | c.A>>4
		c.state = execState{kind: stateFetch}
		return
	case op == 0x57: // DA A
		c.daa()
		c.state = execState{kind: stateFetch}
		return
	case op == 0xE7: // RL A
		c.A = c.A<<1 | c.A>>7
		c.state = execState{kind: stateFetch}
		return
	case op == 0xF7: // RLC A
		carryIn := uint8(0)
		if c.flagSet(PswCY) {
			carryIn = 1
		}
		c.setFlag(PswCY, c.A&0x80 != 0)
		c.A = c.A<<1 | carryIn
		c.state = execState{kind: stateFetch}
		return
	case op == 0x77: // RR A
		c.A = c.A>>1 | c.A<<7
		c.state = execState{kind: stateFetch}
		return
	case op == 0x67: // RRC A
		carryIn := uint8(0)
		if c.flagSet(PswCY) {
			carryIn = 0x80
		}
		c.setFlag(PswCY, c.A&1 != 0)
		c.A = c.A>>1 | carryIn
		c.state = execState{kind: stateFetch}
		return
	case op >= 0x18 && op <= 0x1F: // INC Rn
		n := op & 0x07
		c.setReg(n, c.getReg(n)+1)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x10 || op == 0x11: // INC @Ri
		ri := c.getReg(op & 1)
		c.writeRAM(ri, c.readRAM(ri)+1)
		c.state = execState{kind: stateFetch}
		return
	case op >= 0xC8 && op <= 0xCF: // DEC Rn
		n := op & 0x07
		c.setReg(n, c.getReg(n)-1)
		c.state = execState{kind: stateFetch}
		return

	// ===== flag/mode control, 1 cycle =====
	case op == 0x97:
		c.setFlag(PswCY, false)
		c.state = execState{kind: stateFetch}
		return
	case op == 0xA7:
		c.setFlag(PswCY, !c.flagSet(PswCY))
		c.state = execState{kind: stateFetch}
		return
	case op == 0x85:
		c.setFlag(PswF0, false)
		c.state = execState{kind: stateFetch}
		return
	case op == 0x95:
		c.setFlag(PswF0, !c.flagSet(PswF0))
		c.state = execState{kind: stateFetch}
		return
	case op == 0xA5:
		c.F1 = false
		c.state = execState{kind: stateFetch}
		return
	case op == 0xB5:
		c.F1 = !c.F1
		c.state = execState{kind: stateFetch}
		return
	case op == 0xC5:
		c.setFlag(PswBS, false)
		c.state = execState{kind: stateFetch}
		return
	case op == 0xD5:
		c.setFlag(PswBS, true)
		c.state = execState{kind: stateFetch}
		return
	case op == 0xE5:
		c.a11Pending = false
		c.state = execState{kind: stateFetch}
		return
	case op == 0xF5:
		c.a11Pending = true
		c.state = execState{kind: stateFetch}
		return
	case op == 0x05:
		c.intEnabled = true
		c.state = execState{kind: stateFetch}
		return
	case op == 0x15:
		c.intEnabled = false
		c.state = execState{kind: stateFetch}
		return
	case op == 0x25:
		c.tcntiEnabled = true
		c.state = execState{kind: stateFetch}
		return
	case op == 0x35:
		c.tcntiEnabled = false
		c.state = execState{kind: stateFetch}
		return
	case op == 0x55:
		c.timerEnabled = true
		c.counterEnabled = false
		c.state = execState{kind: stateFetch}
		return
	case op == 0x45:
		c.counterEnabled = true
		c.timerEnabled = false
		c.state = execState{kind: stateFetch}
		return
	case op == 0x65:
		c.timerEnabled, c.counterEnabled = false, false
		c.state = execState{kind: stateFetch}
		return

	// ===== control flow, grounded on original jump/call/ret logic =====
	case op&0x1F == 0x04: // JMP addr11: 0x04/0x24/0x44/0x64/0x84/0xA4/0xC4/0xE4
		c.opJmp(cycle, op, b, m)
		return
	case op&0x1F == 0x14: // CALL addr11
		c.opCall(cycle, op, b, m)
		return
	case op == 0xB3: // JMPP @A
		c.opJmpp(cycle, b, m)
		return
	case op == 0x83: // RET
		c.opRet(cycle)
		return
	case op == 0x93: // RETR
		c.opRetr(cycle)
		return
	case op >= 0xE8 && op <= 0xEF: // DJNZ Rn,addr
		c.opDjnz(op&0x07, cycle, b, m)
		return
	case op == 0xF6:
		c.opCondJump(cycle, c.flagSet(PswCY), b, m)
		return
	case op == 0xE6:
		c.opCondJump(cycle, !c.flagSet(PswCY), b, m)
		return
	case op == 0x96:
		c.opCondJump(cycle, c.A == 0, b, m)
		return
	case op == 0xA6:
		c.opCondJump(cycle, c.A != 0, b, m)
		return
	case op == 0xB6:
		c.opCondJump(cycle, c.flagSet(PswF0), b, m)
		return
	case op == 0x76:
		c.opCondJump(cycle, c.F1, b, m)
		return
	case op == 0x26:
		c.opCondJumpBus(cycle, PortT0, true, b, m)
		return
	case op == 0x46:
		c.opCondJumpBus(cycle, PortT0, false, b, m)
		return
	case op == 0x36:
		c.opCondJumpBus(cycle, PortT1, true, b, m)
		return
	case op == 0x56:
		c.opCondJumpBus(cycle, PortT1, false, b, m)
		return
	case op == 0x16: // JTF: jump if timer overflow, then clear it
		if cycle == 0 {
			c.tempData = boolToU8(c.timerOverflow)
			c.timerOverflow = false
			c.state = execState{kind: stateExecute, opcode: op, cycle: 1}
			return
		}
		c.jumpIfTemp(b, m)
		return
	case op == 0x86: // JNI: jump if INT pin asserted
		if cycle == 0 {
			c.tempData = boolToU8(c.irqPending)
			c.state = execState{kind: stateExecute, opcode: op, cycle: 1}
			return
		}
		c.jumpIfTemp(b, m)
		return
	case op&0x1F == 0x12: // JBb addr: 0x12/0x32/0x52/0x72/0x92/0xB2/0xD2/0xF2
		bit := (op >> 5) & 0x07
		c.opCondJump(cycle, (c.A>>bit)&1 != 0, b, m)
		return

	// ===== immediate loads, 2 cycles =====
	case op == 0x23: // MOV A,#data
		c.twoCycle(cycle, func() { c.A = fetch8(c, b, m) })
		return
	case op >= 0xB8 && op <= 0xBF: // MOV Rn,#data
		n := op & 0x07
		c.twoCycle(cycle, func() { c.setReg(n, fetch8(c, b, m)) })
		return
	case op == 0xB0 || op == 0xB1: // MOV @Ri,#data
		ri := op & 1
		c.twoCycle(cycle, func() { c.writeRAM(c.getReg(ri), fetch8(c, b, m)) })
		return
	case op == 0x03: // ADD A,#data
		c.twoCycle(cycle, func() { c.A = c.add(fetch8(c, b, m), false) })
		return
	case op == 0x13: // ADDC A,#data
		c.twoCycle(cycle, func() { c.A = c.add(fetch8(c, b, m), true) })
		return
	case op == 0x53: // ANL A,#data
		c.twoCycle(cycle, func() { c.A &= fetch8(c, b, m) })
		return
	case op == 0x43: // ORL A,#data
		c.twoCycle(cycle, func() { c.A |= fetch8(c, b, m) })
		return
	case op == 0xD3: // XRL A,#data
		c.twoCycle(cycle, func() { c.A ^= fetch8(c, b, m) })
		return

	// ===== external memory / program memory / port I/O, 2 cycles =====
	case op == 0x80 || op == 0x81: // MOVX A,@Ri
		ri := op & 1
		c.twoCycle(cycle, func() { c.A = b.IORead(m, uint16(c.getReg(ri))) })
		return
	case op == 0x90 || op == 0x91: // MOVX @Ri,A
		ri := op & 1
		c.twoCycle(cycle, func() { b.IOWrite(m, uint16(c.getReg(ri)), c.A) })
		return
	case op == 0xA3: // MOVP A,@A
		c.twoCycle(cycle, func() {
			addr := (c.PC & 0xF00) | uint16(c.A)
			c.A = b.Read(m, addr)
		})
		return
	case op == 0xE3: // MOVP3 A,@A
		c.twoCycle(cycle, func() {
			c.A = b.Read(m, 0x300|uint16(c.A))
		})
		return
	case op == 0x08: // INS A,BUS
		c.twoCycle(cycle, func() { c.A = b.IORead(m, PortBus) })
		return
	case op == 0x09: // IN A,P1
		c.twoCycle(cycle, func() { c.A = b.IORead(m, PortP1) })
		return
	case op == 0x0A: // IN A,P2
		c.twoCycle(cycle, func() { c.A = b.IORead(m, PortP2) })
		return
	case op == 0x02: // OUTL BUS,A
		c.twoCycle(cycle, func() { c.DBBB = c.A; b.IOWrite(m, PortBus, c.A) })
		return
	case op == 0x39: // OUTL P1,A
		c.twoCycle(cycle, func() { c.P1 = c.A; b.IOWrite(m, PortP1, c.A) })
		return
	case op == 0x3A: // OUTL P2,A
		c.twoCycle(cycle, func() { c.P2 = c.A; b.IOWrite(m, PortP2, c.A) })
		return
	case op == 0x98: // ANL BUS,#data
		c.twoCycle(cycle, func() { c.DBBB &= fetch8(c, b, m); b.IOWrite(m, PortBus, c.DBBB) })
		return
	case op == 0x88: // ORL BUS,#data
		c.twoCycle(cycle, func() { c.DBBB |= fetch8(c, b, m); b.IOWrite(m, PortBus, c.DBBB) })
		return
	case op == 0x99: // ANL P1,#data
		c.twoCycle(cycle, func() { c.P1 &= fetch8(c, b, m); b.IOWrite(m, PortP1, c.P1) })
		return
	case op == 0x89: // ORL P1,#data
		c.twoCycle(cycle, func() { c.P1 |= fetch8(c, b, m); b.IOWrite(m, PortP1, c.P1) })
		return
	case op == 0x9A: // ANL P2,#data
		c.twoCycle(cycle, func() { c.P2 &= fetch8(c, b, m); b.IOWrite(m, PortP2, c.P2) })
		return
	case op == 0x8A: // ORL P2,#data
		c.twoCycle(cycle, func() { c.P2 |= fetch8(c, b, m); b.IOWrite(m, PortP2, c.P2) })
		return

	// ===== expander port I/O (P4-P7 via P2), 2 cycles =====
	case op >= 0x0C && op <= 0x0F: // MOVD A,Pp
		port := uint16(op & 0x03)
		c.twoCycle(cycle, func() { c.A = b.IORead(m, PortP4+port) & 0x0F })
		return
	case op >= 0x3C && op <= 0x3F: // MOVD Pp,A
		port := uint16(op & 0x03)
		c.twoCycle(cycle, func() { b.IOWrite(m, PortP4+port, c.A&0x0F) })
		return
	case op >= 0x9C && op <= 0x9F: // ANLD Pp,A
		port := uint16(op & 0x03)
		c.twoCycle(cycle, func() {
			addr := PortP4 + port
			v := b.IORead(m, addr) & (c.A | 0xF0)
			b.IOWrite(m, addr, v&0x0F)
		})
		return
	case op >= 0x8C && op <= 0x8F: // ORLD Pp,A
		port := uint16(op & 0x03)
		c.twoCycle(cycle, func() {
			addr := PortP4 + port
			v := b.IORead(m, addr) | (c.A & 0x0F)
			b.IOWrite(m, addr, v&0x0F)
		})
		return
	}

	// Undefined opcode: treat as a one-cycle NOP.
	c.state = execState{kind: stateFetch}
}

func boolToU8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// twoCycle runs fn on the instruction's second machine cycle only,
// matching every 2-cycle MCS-48 opcode's Execute(self.opcode) ->
// {...; Fetch} shape.
func (c *CPU) twoCycle(cycle int, fn func()) {
	if cycle == 0 {
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	fn()
	c.state = execState{kind: stateFetch}
}

// jumpIfTemp reads the target byte and branches within the current
// page iff tempData is non-zero, the shared second half of every
// conditional jump.
func (c *CPU) jumpIfTemp(b bus.Bus, m bus.Master) {
	page := c.PC & 0xF00
	addr := b.Read(m, c.PC)
	c.PC = (c.PC + 1) & 0x0FFF
	if c.tempData != 0 {
		c.PC = page | uint16(addr)
	}
	c.state = execState{kind: stateFetch}
}

func (c *CPU) opCondJump(cycle int, take bool, b bus.Bus, m bus.Master) {
	if cycle == 0 {
		c.tempData = boolToU8(take)
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	c.jumpIfTemp(b, m)
}

func (c *CPU) opCondJumpBus(cycle int, port uint16, high bool, b bus.Bus, m bus.Master) {
	if cycle == 0 {
		pin := b.IORead(m, port) != 0
		c.tempData = boolToU8(pin == high)
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	c.jumpIfTemp(b, m)
}

// opJmp: target = (A11 << 11) | (opcode[7:5] << 8) | addr_byte.
func (c *CPU) opJmp(cycle int, op uint8, b bus.Bus, m bus.Master) {
	if cycle == 0 {
		c.state = execState{kind: stateExecute, opcode: op, cycle: 1}
		return
	}
	addrByte := b.Read(m, c.PC)
	c.a11 = c.a11Pending
	base := uint16(0)
	if c.a11 {
		base = 0x800
	}
	c.PC = base | (uint16(op&0xE0) << 3) | uint16(addrByte)
	c.state = execState{kind: stateFetch}
}

func (c *CPU) opCall(cycle int, op uint8, b bus.Bus, m bus.Master) {
	if cycle == 0 {
		c.state = execState{kind: stateExecute, opcode: op, cycle: 1}
		return
	}
	addrByte := b.Read(m, c.PC)
	c.PC = (c.PC + 1) & 0x0FFF
	c.pushPCPSW()
	c.a11 = c.a11Pending
	base := uint16(0)
	if c.a11 {
		base = 0x800
	}
	c.PC = base | (uint16(op&0xE0) << 3) | uint16(addrByte)
	c.state = execState{kind: stateFetch}
}

func (c *CPU) opJmpp(cycle int, b bus.Bus, m bus.Master) {
	if cycle == 0 {
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	page := c.PC & 0xF00
	c.PC = page | uint16(b.Read(m, page|uint16(c.A)))
	c.state = execState{kind: stateFetch}
}

func (c *CPU) opRet(cycle int) {
	if cycle == 0 {
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	c.popPCPSW(false)
	c.state = execState{kind: stateFetch}
}

func (c *CPU) opRetr(cycle int) {
	if cycle == 0 {
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	c.popPCPSW(true)
	c.inInterrupt = false
	c.state = execState{kind: stateFetch}
}

func (c *CPU) opDjnz(n uint8, cycle int, b bus.Bus, m bus.Master) {
	if cycle == 0 {
		v := c.getReg(n) - 1
		c.setReg(n, v)
		c.tempData = boolToU8(v != 0)
		c.state = execState{kind: stateExecute, opcode: c.opcode, cycle: 1}
		return
	}
	c.jumpIfTemp(b, m)
}
