package m6800

import "github.com/master-g/corecade/bus"

type handlerFn func(c *CPU, b bus.Bus, m bus.Master, cycle int)

var mainOpcodes [256]handlerFn

func mop(op uint8, h handlerFn) { mainOpcodes[op] = h }

func directAddr(c *CPU, b bus.Bus, m bus.Master) uint16 {
	return uint16(fetch8(c, b, m))
}

func regA(c *CPU) *uint8 { return &c.A }
func regB(c *CPU) *uint8 { return &c.B }

// aluReg8 registers the immediate/direct/indexed/extended quartet for
// an 8-bit ALU op against A or B. Opcode spacing follows the 6800's
// own layout: immediate, +0x10 direct, +0x20 indexed, +0x30 extended.
func aluReg8(immOp uint8, reg func(c *CPU) *uint8, op func(c *CPU, a, v uint8) uint8) {
	mop(immOp, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		r := reg(c)
		*r = op(c, *r, fetch8(c, b, m))
		c.toFetch()
	})
	mop(immOp+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		r := reg(c)
		*r = op(c, *r, b.Read(m, addr))
		c.toFetch()
	})
	mop(immOp+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		r := reg(c)
		*r = op(c, *r, b.Read(m, addr))
		c.toFetch()
	})
	mop(immOp+0x30, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		r := reg(c)
		*r = op(c, *r, b.Read(m, addr))
		c.toFetch()
	})
}

func aluReadOnly8(immOp uint8, reg func(c *CPU) *uint8, op func(c *CPU, a, v uint8)) {
	mop(immOp, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		op(c, *reg(c), fetch8(c, b, m))
		c.toFetch()
	})
	mop(immOp+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		op(c, *reg(c), b.Read(m, addr))
		c.toFetch()
	})
	mop(immOp+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		op(c, *reg(c), b.Read(m, addr))
		c.toFetch()
	})
	mop(immOp+0x30, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		op(c, *reg(c), b.Read(m, addr))
		c.toFetch()
	})
}

// ld8/st8 register LDAA/LDAB/STAA/STAB style ops; baseDirect is the
// direct-page opcode. The immediate load lives at baseDirect-0x10;
// stores have no immediate form.
func ld8(baseDirect uint8, reg func(c *CPU) *uint8) {
	mop(baseDirect-0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		r := reg(c)
		*r = fetch8(c, b, m)
		c.setFlagsLogical(*r)
		c.toFetch()
	})
	mop(baseDirect, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		r := reg(c)
		*r = b.Read(m, addr)
		c.setFlagsLogical(*r)
		c.toFetch()
	})
	mop(baseDirect+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		r := reg(c)
		*r = b.Read(m, addr)
		c.setFlagsLogical(*r)
		c.toFetch()
	})
	mop(baseDirect+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		r := reg(c)
		*r = b.Read(m, addr)
		c.setFlagsLogical(*r)
		c.toFetch()
	})
}

func st8(baseDirect uint8, reg func(c *CPU) *uint8) {
	mop(baseDirect, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		r := *reg(c)
		b.Write(m, addr, r)
		c.setFlagsLogical(r)
		c.toFetch()
	})
	mop(baseDirect+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		r := *reg(c)
		b.Write(m, addr, r)
		c.setFlagsLogical(r)
		c.toFetch()
	})
	mop(baseDirect+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		r := *reg(c)
		b.Write(m, addr, r)
		c.setFlagsLogical(r)
		c.toFetch()
	})
}

// rmw8 registers the indexed/extended read-modify-write pair shared
// by NEG/COM/LSR/ROR/ASR/ASL/ROL/DEC/INC/TST/CLR.
func rmw8(indexedOp, extendedOp uint8, op func(c *CPU, v uint8) uint8) {
	mop(indexedOp, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		v := op(c, b.Read(m, addr))
		b.Write(m, addr, v)
		c.toFetch()
	})
	mop(extendedOp, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		v := op(c, b.Read(m, addr))
		b.Write(m, addr, v)
		c.toFetch()
	})
}

// registerUnaryGroup wires the inherent NEG/COM/LSR/ROR/ASR/ASL/ROL/
// DEC/INC/TST/CLR group for A (base 0x40) or B (base 0x50).
func registerUnaryGroup(base uint8, reg func(c *CPU) *uint8) {
	mop(base+0x00, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.neg(*r); c.toFetch() })
	mop(base+0x03, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.com(*r); c.toFetch() })
	mop(base+0x04, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.lsr(*r); c.toFetch() })
	mop(base+0x06, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.ror(*r); c.toFetch() })
	mop(base+0x07, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.asr(*r); c.toFetch() })
	mop(base+0x08, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.asl(*r); c.toFetch() })
	mop(base+0x09, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.rol(*r); c.toFetch() })
	mop(base+0x0A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.dec(*r); c.toFetch() })
	mop(base+0x0C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { r := reg(c); *r = c.inc(*r); c.toFetch() })
	mop(base+0x0D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.tst(*reg(c)); c.toFetch() })
	mop(base+0x0F, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		*reg(c) = 0
		c.setFlagsLogical(0)
		c.setFlag(CcC, false)
		c.toFetch()
	})
}

var condTable = [16]func(cc uint8) bool{
	func(cc uint8) bool { return true },                                          // BRA
	nil,                                                                           // (page gap, unused on 6800)
	func(cc uint8) bool { return cc&(CcC|CcZ) == 0 },                             // BHI
	func(cc uint8) bool { return cc&(CcC|CcZ) != 0 },                             // BLS
	func(cc uint8) bool { return cc&CcC == 0 },                                   // BCC
	func(cc uint8) bool { return cc&CcC != 0 },                                   // BCS
	func(cc uint8) bool { return cc&CcZ == 0 },                                   // BNE
	func(cc uint8) bool { return cc&CcZ != 0 },                                   // BEQ
	func(cc uint8) bool { return cc&CcV == 0 },                                   // BVC
	func(cc uint8) bool { return cc&CcV != 0 },                                   // BVS
	func(cc uint8) bool { return cc&CcN == 0 },                                   // BPL
	func(cc uint8) bool { return cc&CcN != 0 },                                   // BMI
	func(cc uint8) bool { return (cc&CcN != 0) == (cc&CcV != 0) },                // BGE
	func(cc uint8) bool { return (cc&CcN != 0) != (cc&CcV != 0) },                // BLT
	func(cc uint8) bool { return cc&CcZ == 0 && (cc&CcN != 0) == (cc&CcV != 0) }, // BGT
	func(cc uint8) bool { return cc&CcZ != 0 || (cc&CcN != 0) != (cc&CcV != 0) }, // BLE
}

func branchShort(cond func(cc uint8) bool) handlerFn {
	return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		off := int8(fetch8(c, b, m))
		if cond(c.CC) {
			c.PC = uint16(int32(c.PC) + int32(off))
		}
		c.toFetch()
	}
}

func init() {
	mop(0x01, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.toFetch() }) // NOP

	mop(0x06, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.CC = c.A; c.toFetch() }) // TAP
	mop(0x07, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.CC; c.toFetch() }) // TPA
	mop(0x08, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.X++; c.setFlag(CcZ, c.X == 0); c.toFetch() })
	mop(0x09, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.X--; c.setFlag(CcZ, c.X == 0); c.toFetch() })
	mop(0x0A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setFlag(CcV, false); c.toFetch() })
	mop(0x0B, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setFlag(CcV, true); c.toFetch() })
	mop(0x0C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setFlag(CcC, false); c.toFetch() })
	mop(0x0D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setFlag(CcC, true); c.toFetch() })
	mop(0x0E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setFlag(CcI, false); c.toFetch() })
	mop(0x0F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setFlag(CcI, true); c.toFetch() })

	mop(0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.sub8(c.A, c.B, false); c.toFetch() }) // SBA
	mop(0x11, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cmp8(c.A, c.B); c.toFetch() })              // CBA
	mop(0x16, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.A; c.setFlagsLogical(c.B); c.toFetch() })
	mop(0x17, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.B; c.setFlagsLogical(c.A); c.toFetch() })
	mop(0x19, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.daa(); c.toFetch() })
	mop(0x1B, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.add8(c.A, c.B, false); c.toFetch() }) // ABA

	for i, cond := range condTable {
		if cond == nil {
			continue
		}
		mop(uint8(0x20+i), branchShort(cond))
	}

	mop(0x30, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.X = c.SP + 1; c.toFetch() })
	mop(0x31, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.SP++; c.toFetch() })
	mop(0x32, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.pull8(b, m); c.toFetch() })
	mop(0x33, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.pull8(b, m); c.toFetch() })
	mop(0x34, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.SP--; c.toFetch() })
	mop(0x35, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.SP = c.X - 1; c.toFetch() })
	mop(0x36, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.push8(b, m, c.A); c.toFetch() })
	mop(0x37, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.push8(b, m, c.B); c.toFetch() })
	mop(0x39, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		c.PC = hi<<8 | lo
		c.toFetch()
	})
	mop(0x3B, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // RTI
		c.CC = c.pull8(b, m)
		c.B = c.pull8(b, m)
		c.A = c.pull8(b, m)
		xhi := uint16(c.pull8(b, m))
		xlo := uint16(c.pull8(b, m))
		c.X = xhi<<8 | xlo
		pchi := uint16(c.pull8(b, m))
		pclo := uint16(c.pull8(b, m))
		c.PC = pchi<<8 | pclo
		c.toFetch()
	})
	mop(0x3E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.state.kind = stateWaitForInterrupt }) // WAI
	mop(0x3F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // SWI
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.push8(b, m, uint8(c.X))
		c.push8(b, m, uint8(c.X>>8))
		c.push8(b, m, c.A)
		c.push8(b, m, c.B)
		c.push8(b, m, c.CC)
		c.setFlag(CcI, true)
		lo := uint16(b.Read(m, 0xFFFA))
		hi := uint16(b.Read(m, 0xFFFB))
		c.PC = hi<<8 | lo
		c.toFetch()
	})

	registerUnaryGroup(0x40, regA)
	registerUnaryGroup(0x50, regB)

	rmw8(0x60, 0x70, (*CPU).neg)
	rmw8(0x63, 0x73, (*CPU).com)
	rmw8(0x64, 0x74, (*CPU).lsr)
	rmw8(0x66, 0x76, (*CPU).ror)
	rmw8(0x67, 0x77, (*CPU).asr)
	rmw8(0x68, 0x78, (*CPU).asl)
	rmw8(0x69, 0x79, (*CPU).rol)
	rmw8(0x6A, 0x7A, (*CPU).dec)
	rmw8(0x6C, 0x7C, (*CPU).inc)
	rmw8(0x6D, 0x7D, func(c *CPU, v uint8) uint8 { c.tst(v); return v })
	rmw8(0x6F, 0x7F, func(c *CPU, v uint8) uint8 { c.setFlagsLogical(0); c.setFlag(CcC, false); return 0 })

	mop(0x6E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = c.indexedAddr(b, m); c.toFetch() })
	mop(0x7E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = fetch16(c, b, m); c.toFetch() })

	aluReg8(0x80, regA, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, false) })
	aluReadOnly8(0x81, regA, func(c *CPU, a, v uint8) { c.cmp8(a, v) })
	aluReg8(0x82, regA, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, true) })
	aluReg8(0x84, regA, func(c *CPU, a, v uint8) uint8 { return c.and8(a, v) })
	aluReadOnly8(0x85, regA, func(c *CPU, a, v uint8) { c.bit8(a, v) })
	ld8(0x96, regA) // also registers LDAA immediate at 0x86
	aluReg8(0x88, regA, func(c *CPU, a, v uint8) uint8 { return c.eor8(a, v) })
	aluReg8(0x89, regA, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, true) })
	aluReg8(0x8A, regA, func(c *CPU, a, v uint8) uint8 { return c.or8(a, v) })
	aluReg8(0x8B, regA, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, false) })
	st8(0x97, regA)

	aluReg8(0xC0, regB, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, false) })
	aluReadOnly8(0xC1, regB, func(c *CPU, a, v uint8) { c.cmp8(a, v) })
	aluReg8(0xC2, regB, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, true) })
	aluReg8(0xC4, regB, func(c *CPU, a, v uint8) uint8 { return c.and8(a, v) })
	aluReadOnly8(0xC5, regB, func(c *CPU, a, v uint8) { c.bit8(a, v) })
	ld8(0xD6, regB)
	aluReg8(0xC8, regB, func(c *CPU, a, v uint8) uint8 { return c.eor8(a, v) })
	aluReg8(0xC9, regB, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, true) })
	aluReg8(0xCA, regB, func(c *CPU, a, v uint8) uint8 { return c.or8(a, v) })
	aluReg8(0xCB, regB, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, false) })
	st8(0xD7, regB)

	// CPX: 6800 quirk, only N/Z/V are set (no C).
	mop(0x8C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cpx16(c.X, fetch16(c, b, m)); c.toFetch() })
	mop(0x9C, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.cpx16(c.X, hi<<8|lo)
		c.toFetch()
	})
	mop(0xAC, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.cpx16(c.X, hi<<8|lo)
		c.toFetch()
	})
	mop(0xBC, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.cpx16(c.X, hi<<8|lo)
		c.toFetch()
	})

	mop(0x8D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // BSR
		off := int8(fetch8(c, b, m))
		ret := c.PC
		c.push8(b, m, uint8(ret))
		c.push8(b, m, uint8(ret>>8))
		c.PC = uint16(int32(c.PC) + int32(off))
		c.toFetch()
	})

	mop(0x8E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // LDS immediate
		c.SP = fetch16(c, b, m)
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})
	mop(0x9E, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.SP = hi<<8 | lo
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})
	mop(0xAE, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.SP = hi<<8 | lo
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})
	mop(0xBE, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.SP = hi<<8 | lo
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})
	mop(0x9F, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		b.Write(m, addr, uint8(c.SP>>8))
		b.Write(m, addr+1, uint8(c.SP))
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})
	mop(0xAF, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		b.Write(m, addr, uint8(c.SP>>8))
		b.Write(m, addr+1, uint8(c.SP))
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})
	mop(0xBF, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		b.Write(m, addr, uint8(c.SP>>8))
		b.Write(m, addr+1, uint8(c.SP))
		c.setFlagsLogical16(c.SP)
		c.toFetch()
	})

	mop(0xCE, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // LDX immediate
		c.X = fetch16(c, b, m)
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})
	mop(0xDE, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.X = hi<<8 | lo
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})
	mop(0xEE, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.X = hi<<8 | lo
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})
	mop(0xFE, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.X = hi<<8 | lo
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})
	mop(0xDF, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := directAddr(c, b, m)
		b.Write(m, addr, uint8(c.X>>8))
		b.Write(m, addr+1, uint8(c.X))
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})
	mop(0xEF, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.indexedAddr(b, m)
		b.Write(m, addr, uint8(c.X>>8))
		b.Write(m, addr+1, uint8(c.X))
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})
	mop(0xFF, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		b.Write(m, addr, uint8(c.X>>8))
		b.Write(m, addr+1, uint8(c.X))
		c.setFlagsLogical16(c.X)
		c.toFetch()
	})

	mop(0xBD, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // JSR extended
		addr := fetch16(c, b, m)
		ret := c.PC
		c.push8(b, m, uint8(ret))
		c.push8(b, m, uint8(ret>>8))
		c.PC = addr
		c.toFetch()
	})
	mop(0xAD, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // JSR indexed
		addr := c.indexedAddr(b, m)
		ret := c.PC
		c.push8(b, m, uint8(ret))
		c.push8(b, m, uint8(ret>>8))
		c.PC = addr
		c.toFetch()
	})
}
