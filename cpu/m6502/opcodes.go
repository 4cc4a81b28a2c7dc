package m6502

import "github.com/master-g/corecade/bus"

type handlerFn func(c *CPU, b bus.Bus, m bus.Master, cycle int)

// opcodeTable is indexed by opcode byte. A nil entry is an undocumented
// encoding this core treats as NOP (see TickWithBus).
var opcodeTable [256]handlerFn

func op(code uint8, h handlerFn) { opcodeTable[code] = h }

// ---- addressing-mode helpers -------------------------------------------
//
// Each helper encodes the exact cycle pattern for one addressing mode
// and, once the operand is available, invokes the caller-supplied
// closure. Every helper reads or writes the bus at most once per call,
// matching the opcode handler contract.

// aluImm: operand is the byte immediately following the opcode.
func aluImm(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	v := b.Read(m, c.PC)
	c.PC++
	f(v)
	c.toFetch()
}

// aluZP: zero-page read, 3 cycles total (1 fetch + 2 here).
func aluZP(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	switch cycle {
	case 0:
		c.tempAddr = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		f(b.Read(m, c.tempAddr))
		c.toFetch()
	}
}

func zpIndexedAddr(c *CPU, b bus.Bus, m bus.Master, cycle int, index uint8) bool {
	switch cycle {
	case 0:
		c.tempAddr = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
		return false
	case 1:
		_ = b.Read(m, c.tempAddr) // dummy read while index is added, real 6502 behavior
		c.tempAddr = uint16(uint8(c.tempAddr) + index)
		c.toExecute(2)
		return false
	}
	return true
}

// aluZPX / aluZPY: zero-page,X / zero-page,Y read, 4 cycles total.
func aluZPX(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	if zpIndexedAddr(c, b, m, cycle, c.X) {
		f(b.Read(m, c.tempAddr))
		c.toFetch()
	}
}

func aluZPY(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	if zpIndexedAddr(c, b, m, cycle, c.Y) {
		f(b.Read(m, c.tempAddr))
		c.toFetch()
	}
}

// aluAbs: absolute read, 4 cycles total.
func aluAbs(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	switch cycle {
	case 0:
		c.tempAddrLo = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		hi := uint16(b.Read(m, c.PC))
		c.PC++
		c.tempAddr = hi<<8 | c.tempAddrLo
		c.toExecute(2)
	case 2:
		f(b.Read(m, c.tempAddr))
		c.toFetch()
	}
}

// absIndexedAddr resolves addr+index, paying the documented page-cross
// penalty cycle for reads (stores/RMW always pay it; see aluAbsIndexed
// vs storeAbsIndexed).
func absIndexedAddr(c *CPU, b bus.Bus, m bus.Master, cycle int, index uint8) int {
	switch cycle {
	case 0:
		c.tempAddrLo = uint16(b.Read(m, c.PC))
		c.PC++
		return 1
	case 1:
		hi := b.Read(m, c.PC)
		c.PC++
		base := uint16(hi)<<8 | c.tempAddrLo
		unadjusted := (base & 0xFF00) | ((base + uint16(index)) & 0x00FF)
		c.tempAddr = base + uint16(index)
		c.pageCrossed = c.tempAddr&0xFF00 != unadjusted&0xFF00
		return 2
	}
	return -1
}

func aluAbsIndexed(c *CPU, b bus.Bus, m bus.Master, cycle int, index uint8, f func(v uint8)) {
	if next := absIndexedAddr(c, b, m, cycle, index); next > 0 {
		c.toExecute(next)
		return
	}
	if c.pageCrossed && c.state.cycle == 2 {
		// dummy read at the unadjusted address, then re-read corrected
		_ = b.Read(m, c.tempAddr-0x100)
		c.toExecute(3)
		return
	}
	f(b.Read(m, c.tempAddr))
	c.toFetch()
}

func aluAbsX(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	aluAbsIndexed(c, b, m, cycle, c.X, f)
}

func aluAbsY(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	aluAbsIndexed(c, b, m, cycle, c.Y, f)
}

// aluIndX: (zp,X) indexed indirect, 6 cycles total.
func aluIndX(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	switch cycle {
	case 0:
		c.tempData = b.Read(m, c.PC)
		c.PC++
		c.toExecute(1)
	case 1:
		_ = b.Read(m, uint16(c.tempData))
		c.tempData += c.X
		c.toExecute(2)
	case 2:
		c.tempAddrLo = uint16(b.Read(m, uint16(c.tempData)))
		c.toExecute(3)
	case 3:
		hi := uint16(b.Read(m, uint16(c.tempData+1)))
		c.tempAddr = hi<<8 | c.tempAddrLo
		c.toExecute(4)
	case 4:
		f(b.Read(m, c.tempAddr))
		c.toFetch()
	}
}

// aluIndY: (zp),Y indirect indexed, 5-6 cycles (page-cross penalty).
func aluIndY(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8)) {
	switch cycle {
	case 0:
		c.tempData = b.Read(m, c.PC)
		c.PC++
		c.toExecute(1)
	case 1:
		c.tempAddrLo = uint16(b.Read(m, uint16(c.tempData)))
		c.toExecute(2)
	case 2:
		hi := uint16(b.Read(m, uint16(c.tempData+1)))
		base := hi<<8 | c.tempAddrLo
		unadjusted := (base & 0xFF00) | ((base + uint16(c.Y)) & 0x00FF)
		c.tempAddr = base + uint16(c.Y)
		c.pageCrossed = c.tempAddr&0xFF00 != unadjusted&0xFF00
		if c.pageCrossed {
			c.toExecute(3)
		} else {
			c.toExecute(4)
		}
	case 3:
		_ = b.Read(m, c.tempAddr)
		c.toExecute(4)
	case 4:
		f(b.Read(m, c.tempAddr))
		c.toFetch()
	}
}

// ---- store helpers: always resolve address then write; stores and RMW
// ops always pay any page-cross cycle since they cannot shortcut. ----

func storeZP(c *CPU, b bus.Bus, m bus.Master, cycle int, v uint8) {
	switch cycle {
	case 0:
		c.tempAddr = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		b.Write(m, c.tempAddr, v)
		c.toFetch()
	}
}

func storeZPX(c *CPU, b bus.Bus, m bus.Master, cycle int, v uint8) {
	if zpIndexedAddr(c, b, m, cycle, c.X) {
		b.Write(m, c.tempAddr, v)
		c.toFetch()
	}
}

func storeZPY(c *CPU, b bus.Bus, m bus.Master, cycle int, v uint8) {
	if zpIndexedAddr(c, b, m, cycle, c.Y) {
		b.Write(m, c.tempAddr, v)
		c.toFetch()
	}
}

func storeAbs(c *CPU, b bus.Bus, m bus.Master, cycle int, v uint8) {
	switch cycle {
	case 0:
		c.tempAddrLo = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		hi := uint16(b.Read(m, c.PC))
		c.PC++
		c.tempAddr = hi<<8 | c.tempAddrLo
		c.toExecute(2)
	case 2:
		b.Write(m, c.tempAddr, v)
		c.toFetch()
	}
}

func storeAbsIndexed(c *CPU, b bus.Bus, m bus.Master, cycle int, index uint8, v uint8) {
	switch cycle {
	case 0:
		c.tempAddrLo = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		hi := b.Read(m, c.PC)
		c.PC++
		c.tempAddr = (uint16(hi)<<8 | c.tempAddrLo) + uint16(index)
		c.toExecute(2)
	case 2:
		_ = b.Read(m, c.tempAddr) // store always pays the penalty cycle
		c.toExecute(3)
	case 3:
		b.Write(m, c.tempAddr, v)
		c.toFetch()
	}
}

// ---- RMW (read-modify-write) helpers: ASL/LSR/ROL/ROR/INC/DEC on memory ----

func rmwZP(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8) uint8) {
	switch cycle {
	case 0:
		c.tempAddr = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		c.tempData = b.Read(m, c.tempAddr)
		c.toExecute(2)
	case 2:
		b.Write(m, c.tempAddr, c.tempData) // dummy write-back of old value
		c.toExecute(3)
	case 3:
		b.Write(m, c.tempAddr, f(c.tempData))
		c.toFetch()
	}
}

func rmwAbs(c *CPU, b bus.Bus, m bus.Master, cycle int, f func(v uint8) uint8) {
	switch cycle {
	case 0:
		c.tempAddrLo = uint16(b.Read(m, c.PC))
		c.PC++
		c.toExecute(1)
	case 1:
		hi := uint16(b.Read(m, c.PC))
		c.PC++
		c.tempAddr = hi<<8 | c.tempAddrLo
		c.toExecute(2)
	case 2:
		c.tempData = b.Read(m, c.tempAddr)
		c.toExecute(3)
	case 3:
		b.Write(m, c.tempAddr, c.tempData)
		c.toExecute(4)
	case 4:
		b.Write(m, c.tempAddr, f(c.tempData))
		c.toFetch()
	}
}

// ---- ALU operations -----------------------------------------------------

func (c *CPU) adc(v uint8) {
	carry := uint16(0)
	if c.P&FlagC != 0 {
		carry = 1
	}
	sum := uint16(c.A) + uint16(v) + carry
	result := uint8(sum)
	overflow := (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0
	c.A = result
	if sum > 0xFF {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	if overflow {
		c.P |= FlagV
	} else {
		c.P &^= FlagV
	}
	c.setZN(c.A)
}

func (c *CPU) sbc(v uint8) { c.adc(v ^ 0xFF) }

func (c *CPU) and(v uint8) { c.A &= v; c.setZN(c.A) }
func (c *CPU) ora(v uint8) { c.A |= v; c.setZN(c.A) }
func (c *CPU) eor(v uint8) { c.A ^= v; c.setZN(c.A) }

func (c *CPU) cmp(reg, v uint8) {
	r := reg - v
	c.setZN(r)
	if reg >= v {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
}

func asl(c *CPU) func(uint8) uint8 {
	return func(v uint8) uint8 {
		if v&0x80 != 0 {
			c.P |= FlagC
		} else {
			c.P &^= FlagC
		}
		r := v << 1
		c.setZN(r)
		return r
	}
}

func lsr(c *CPU) func(uint8) uint8 {
	return func(v uint8) uint8 {
		if v&1 != 0 {
			c.P |= FlagC
		} else {
			c.P &^= FlagC
		}
		r := v >> 1
		c.setZN(r)
		return r
	}
}

func rol(c *CPU) func(uint8) uint8 {
	return func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&FlagC != 0 {
			carryIn = 1
		}
		if v&0x80 != 0 {
			c.P |= FlagC
		} else {
			c.P &^= FlagC
		}
		r := v<<1 | carryIn
		c.setZN(r)
		return r
	}
}

func ror(c *CPU) func(uint8) uint8 {
	return func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&FlagC != 0 {
			carryIn = 0x80
		}
		if v&1 != 0 {
			c.P |= FlagC
		} else {
			c.P &^= FlagC
		}
		r := v>>1 | carryIn
		c.setZN(r)
		return r
	}
}

// inc/dec preserve C.
func incv(c *CPU) func(uint8) uint8 { return func(v uint8) uint8 { r := v + 1; c.setZN(r); return r } }
func decv(c *CPU) func(uint8) uint8 { return func(v uint8) uint8 { r := v - 1; c.setZN(r); return r } }

// ---- branch helper --------------------------------------------------------

func branch(cond func(c *CPU) bool) handlerFn {
	return func(c *CPU, b bus.Bus, m bus.Master, cycle int) {
		switch cycle {
		case 0:
			c.tempData = b.Read(m, c.PC)
			c.PC++
			if !cond(c) {
				c.toFetch()
				return
			}
			c.toExecute(1)
		case 1:
			offset := int8(c.tempData)
			oldPC := c.PC
			c.PC = uint16(int32(c.PC) + int32(offset))
			if c.PC&0xFF00 != oldPC&0xFF00 {
				c.toExecute(2)
			} else {
				c.toFetch()
			}
		case 2:
			c.toFetch()
		}
	}
}

func init() {
	// ---- loads ----
	op(0xA9, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluImm(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xA5, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xB5, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZPX(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xAD, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xBD, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbsX(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xB9, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbsY(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xA1, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluIndX(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })
	op(0xB1, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluIndY(c, b, m, cy, func(v uint8) { c.A = v; c.setZN(v) }) })

	op(0xA2, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluImm(c, b, m, cy, func(v uint8) { c.X = v; c.setZN(v) }) })
	op(0xA6, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { c.X = v; c.setZN(v) }) })
	op(0xB6, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZPY(c, b, m, cy, func(v uint8) { c.X = v; c.setZN(v) }) })
	op(0xAE, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { c.X = v; c.setZN(v) }) })
	op(0xBE, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbsY(c, b, m, cy, func(v uint8) { c.X = v; c.setZN(v) }) })

	op(0xA0, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluImm(c, b, m, cy, func(v uint8) { c.Y = v; c.setZN(v) }) })
	op(0xA4, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { c.Y = v; c.setZN(v) }) })
	op(0xB4, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZPX(c, b, m, cy, func(v uint8) { c.Y = v; c.setZN(v) }) })
	op(0xAC, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { c.Y = v; c.setZN(v) }) })
	op(0xBC, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbsX(c, b, m, cy, func(v uint8) { c.Y = v; c.setZN(v) }) })

	// ---- stores ----
	op(0x85, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeZP(c, b, m, cy, c.A) })
	op(0x95, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeZPX(c, b, m, cy, c.A) })
	op(0x8D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeAbs(c, b, m, cy, c.A) })
	op(0x9D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeAbsIndexed(c, b, m, cy, c.X, c.A) })
	op(0x99, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeAbsIndexed(c, b, m, cy, c.Y, c.A) })
	op(0x86, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeZP(c, b, m, cy, c.X) })
	op(0x96, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeZPY(c, b, m, cy, c.X) })
	op(0x8E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeAbs(c, b, m, cy, c.X) })
	op(0x84, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeZP(c, b, m, cy, c.Y) })
	op(0x94, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeZPX(c, b, m, cy, c.Y) })
	op(0x8C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { storeAbs(c, b, m, cy, c.Y) })

	// ---- register transfers (2 cycles: implied) ----
	implied := func(f func(c *CPU)) handlerFn {
		return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			f(c)
			c.toFetch()
		}
	}
	op(0xAA, implied(func(c *CPU) { c.X = c.A; c.setZN(c.X) }))
	op(0xA8, implied(func(c *CPU) { c.Y = c.A; c.setZN(c.Y) }))
	op(0x8A, implied(func(c *CPU) { c.A = c.X; c.setZN(c.A) }))
	op(0x98, implied(func(c *CPU) { c.A = c.Y; c.setZN(c.A) }))
	op(0xBA, implied(func(c *CPU) { c.X = c.SP; c.setZN(c.X) }))
	op(0x9A, implied(func(c *CPU) { c.SP = c.X }))
	op(0xE8, implied(func(c *CPU) { c.X++; c.setZN(c.X) }))
	op(0xC8, implied(func(c *CPU) { c.Y++; c.setZN(c.Y) }))
	op(0xCA, implied(func(c *CPU) { c.X--; c.setZN(c.X) }))
	op(0x88, implied(func(c *CPU) { c.Y--; c.setZN(c.Y) }))
	op(0xEA, implied(func(*CPU) {}))
	op(0x18, implied(func(c *CPU) { c.P &^= FlagC }))
	op(0x38, implied(func(c *CPU) { c.P |= FlagC }))
	op(0x58, implied(func(c *CPU) { c.P &^= FlagI }))
	op(0x78, implied(func(c *CPU) { c.P |= FlagI }))
	op(0xB8, implied(func(c *CPU) { c.P &^= FlagV }))
	op(0xD8, implied(func(c *CPU) { c.P &^= FlagD }))
	op(0xF8, implied(func(c *CPU) { c.P |= FlagD }))

	// ---- ALU ----
	aluSet := func(base uint8, f func(c *CPU, v uint8)) {
		op(base+0x09, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluImm(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x05, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x15, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZPX(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x0D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x1D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbsX(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x19, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbsY(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x01, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluIndX(c, b, m, cy, func(v uint8) { f(c, v) }) })
		op(base+0x11, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluIndY(c, b, m, cy, func(v uint8) { f(c, v) }) })
	}
	aluSet(0x00, func(c *CPU, v uint8) { c.ora(v) })
	aluSet(0x20, func(c *CPU, v uint8) { c.and(v) })
	aluSet(0x40, func(c *CPU, v uint8) { c.eor(v) })
	aluSet(0x60, func(c *CPU, v uint8) { c.adc(v) })
	aluSet(0xC0, func(c *CPU, v uint8) { c.cmp(c.A, v) })
	aluSet(0xE0, func(c *CPU, v uint8) { c.sbc(v) })

	op(0xE0, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluImm(c, b, m, cy, func(v uint8) { c.cmp(c.X, v) }) })
	op(0xE4, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { c.cmp(c.X, v) }) })
	op(0xEC, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { c.cmp(c.X, v) }) })
	op(0xC0, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluImm(c, b, m, cy, func(v uint8) { c.cmp(c.Y, v) }) })
	op(0xC4, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { c.cmp(c.Y, v) }) })
	op(0xCC, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { c.cmp(c.Y, v) }) })

	// ---- shifts / RMW ----
	op(0x0A, implied(func(c *CPU) { c.A = asl(c)(c.A) }))
	op(0x4A, implied(func(c *CPU) { c.A = lsr(c)(c.A) }))
	op(0x2A, implied(func(c *CPU) { c.A = rol(c)(c.A) }))
	op(0x6A, implied(func(c *CPU) { c.A = ror(c)(c.A) }))
	op(0x06, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwZP(c, b, m, cy, asl(c)) })
	op(0x0E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwAbs(c, b, m, cy, asl(c)) })
	op(0x46, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwZP(c, b, m, cy, lsr(c)) })
	op(0x4E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwAbs(c, b, m, cy, lsr(c)) })
	op(0x26, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwZP(c, b, m, cy, rol(c)) })
	op(0x2E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwAbs(c, b, m, cy, rol(c)) })
	op(0x66, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwZP(c, b, m, cy, ror(c)) })
	op(0x6E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwAbs(c, b, m, cy, ror(c)) })
	op(0xE6, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwZP(c, b, m, cy, incv(c)) })
	op(0xEE, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwAbs(c, b, m, cy, incv(c)) })
	op(0xC6, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwZP(c, b, m, cy, decv(c)) })
	op(0xCE, func(c *CPU, b bus.Bus, m bus.Master, cy int) { rmwAbs(c, b, m, cy, decv(c)) })

	// ---- branches ----
	op(0x90, branch(func(c *CPU) bool { return c.P&FlagC == 0 }))
	op(0xB0, branch(func(c *CPU) bool { return c.P&FlagC != 0 }))
	op(0xF0, branch(func(c *CPU) bool { return c.P&FlagZ != 0 }))
	op(0xD0, branch(func(c *CPU) bool { return c.P&FlagZ == 0 }))
	op(0x10, branch(func(c *CPU) bool { return c.P&FlagN == 0 }))
	op(0x30, branch(func(c *CPU) bool { return c.P&FlagN != 0 }))
	op(0x50, branch(func(c *CPU) bool { return c.P&FlagV == 0 }))
	op(0x70, branch(func(c *CPU) bool { return c.P&FlagV != 0 }))

	// ---- BIT ----
	bit := func(c *CPU, v uint8) {
		if v&0x80 != 0 {
			c.P |= FlagN
		} else {
			c.P &^= FlagN
		}
		if v&0x40 != 0 {
			c.P |= FlagV
		} else {
			c.P &^= FlagV
		}
		if c.A&v == 0 {
			c.P |= FlagZ
		} else {
			c.P &^= FlagZ
		}
	}
	op(0x24, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluZP(c, b, m, cy, func(v uint8) { bit(c, v) }) })
	op(0x2C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { aluAbs(c, b, m, cy, func(v uint8) { bit(c, v) }) })

	// ---- stack ----
	op(0x48, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.toExecute(1)
		case 1:
			c.push(b, m, c.A)
			c.toFetch()
		}
	})
	op(0x68, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0, 1:
			c.toExecute(cy + 1)
		case 2:
			c.A = c.pop(b, m)
			c.setZN(c.A)
			c.toFetch()
		}
	})
	op(0x08, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.toExecute(1)
		case 1:
			c.push(b, m, c.P|FlagB|FlagU)
			c.toFetch()
		}
	})
	op(0x28, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0, 1:
			c.toExecute(cy + 1)
		case 2:
			p := c.pop(b, m)
			c.P = p | FlagU
			c.P &^= FlagB
			c.toFetch()
		}
	})

	// ---- jumps / calls / returns ----
	op(0x4C, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.tempAddrLo = uint16(b.Read(m, c.PC))
			c.PC++
			c.toExecute(1)
		case 1:
			hi := uint16(b.Read(m, c.PC))
			c.PC = hi<<8 | c.tempAddrLo
			c.toFetch()
		}
	})
	op(0x6C, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		// JMP (indirect): reproduces the NMOS page-wrap bug — if the
		// pointer's low byte is 0xFF, the high byte is fetched from
		// xx00, not (xx+1)00.
		switch cy {
		case 0:
			c.tempAddrLo = uint16(b.Read(m, c.PC))
			c.PC++
			c.toExecute(1)
		case 1:
			hi := uint16(b.Read(m, c.PC))
			c.PC++
			c.tempAddr = hi<<8 | c.tempAddrLo
			c.toExecute(2)
		case 2:
			ptr := c.tempAddr
			lo := uint16(b.Read(m, ptr))
			var hiAddr uint16
			if ptr&0x00FF == 0x00FF {
				hiAddr = ptr & 0xFF00
			} else {
				hiAddr = ptr + 1
			}
			hi := uint16(b.Read(m, hiAddr))
			c.PC = hi<<8 | lo
			c.toFetch()
		}
	})
	op(0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.tempAddrLo = uint16(b.Read(m, c.PC))
			c.PC++
			c.toExecute(1)
		case 1:
			c.toExecute(2) // internal delay cycle
		case 2:
			c.push(b, m, uint8(c.PC>>8))
			c.toExecute(3)
		case 3:
			c.push(b, m, uint8(c.PC))
			c.toExecute(4)
		case 4:
			hi := uint16(b.Read(m, c.PC))
			c.PC = hi<<8 | c.tempAddrLo
			c.toFetch()
		}
	})
	op(0x60, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0, 1:
			c.toExecute(cy + 1)
		case 2:
			lo := uint16(c.pop(b, m))
			c.toExecute(3)
			c.tempAddrLo = lo
		case 3:
			hi := uint16(c.pop(b, m))
			c.PC = hi<<8 | c.tempAddrLo
			c.toExecute(4)
		case 4:
			c.PC++
			c.toFetch()
		}
	})
	op(0x00, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.PC++ // BRK consumes a padding byte
			c.toExecute(1)
		default:
			c.beginInterrupt(b, m, vecIRQ, true)
		}
	})
	op(0x40, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0, 1:
			c.toExecute(cy + 1)
		case 2:
			p := c.pop(b, m)
			c.P = p | FlagU
			c.P &^= FlagB
			c.toExecute(3)
		case 3:
			c.tempAddrLo = uint16(c.pop(b, m))
			c.toExecute(4)
		case 4:
			hi := uint16(c.pop(b, m))
			c.PC = hi<<8 | c.tempAddrLo
			c.toFetch()
		}
	})
}
