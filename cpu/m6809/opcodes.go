package m6809

import "github.com/master-g/corecade/bus"

type handlerFn func(c *CPU, b bus.Bus, m bus.Master, cycle int)

var mainOpcodes [256]handlerFn
var page2Opcodes [256]handlerFn
var page3Opcodes [256]handlerFn

func mop(code uint8, h handlerFn)  { mainOpcodes[code] = h }
func p2op(code uint8, h handlerFn) { page2Opcodes[code] = h }
func p3op(code uint8, h handlerFn) { page3Opcodes[code] = h }

func fetch8(c *CPU, b bus.Bus, m bus.Master) uint8 {
	v := b.Read(m, c.PC)
	c.PC++
	return v
}

func fetch16(c *CPU, b bus.Bus, m bus.Master) uint16 {
	hi := uint16(fetch8(c, b, m))
	lo := uint16(fetch8(c, b, m))
	return hi<<8 | lo
}

func (c *CPU) directAddr(b bus.Bus, m bus.Master) uint16 {
	return uint16(c.DP)<<8 | uint16(fetch8(c, b, m))
}

// aluReg8 registers an 8-bit ALU op (immediate/direct/extended/indexed)
// against either A or B, following the 6809's parallel op-code pages.
func aluReg8(base uint8, reg func(c *CPU) *uint8, op func(c *CPU, a, v uint8) uint8) {
	mop(base, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		v := fetch8(c, b, m)
		r := reg(c)
		*r = op(c, *r, v)
		c.toFetch()
	})
	mop(base+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.directAddr(b, m)
		v := b.Read(m, addr)
		r := reg(c)
		*r = op(c, *r, v)
		c.toFetch()
	})
	mop(base+0x30, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		v := b.Read(m, addr)
		r := reg(c)
		*r = op(c, *r, v)
		c.toFetch()
	})
	mop(base+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		if !c.indexedResolve(b, m, cy) {
			return
		}
		v := b.Read(m, c.tempAddr)
		r := reg(c)
		*r = op(c, *r, v)
		c.toFetch()
	})
}

// aluReadOnly8 registers a compare/test op that does not write back
// (CMPA/CMPB/BITA/BITB).
func aluReadOnly8(base uint8, reg func(c *CPU) *uint8, op func(c *CPU, a, v uint8)) {
	mop(base, func(c *CPU, b bus.Bus, m bus.Master, cy int) { op(c, *reg(c), fetch8(c, b, m)); c.toFetch() })
	mop(base+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		op(c, *reg(c), b.Read(m, c.directAddr(b, m)))
		c.toFetch()
	})
	mop(base+0x30, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		op(c, *reg(c), b.Read(m, fetch16(c, b, m)))
		c.toFetch()
	})
	mop(base+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		if !c.indexedResolve(b, m, cy) {
			return
		}
		op(c, *reg(c), b.Read(m, c.tempAddr))
		c.toFetch()
	})
}

// ld8/st8 register LDA/LDB/STA/STB across direct/extended/indexed.
func ld8(baseDirect uint8, reg func(c *CPU) *uint8) {
	mop(baseDirect-0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) { *reg(c) = fetch8(c, b, m); c.setFlagsLogical(*reg(c)); c.toFetch() })
	mop(baseDirect, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		v := b.Read(m, c.directAddr(b, m))
		*reg(c) = v
		c.setFlagsLogical(v)
		c.toFetch()
	})
	mop(baseDirect+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		v := b.Read(m, fetch16(c, b, m))
		*reg(c) = v
		c.setFlagsLogical(v)
		c.toFetch()
	})
	mop(baseDirect+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		if !c.indexedResolve(b, m, cy) {
			return
		}
		v := b.Read(m, c.tempAddr)
		*reg(c) = v
		c.setFlagsLogical(v)
		c.toFetch()
	})
}

func st8(baseDirect uint8, reg func(c *CPU) *uint8) {
	mop(baseDirect, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.directAddr(b, m)
		b.Write(m, addr, *reg(c))
		c.setFlagsLogical(*reg(c))
		c.toFetch()
	})
	mop(baseDirect+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		b.Write(m, addr, *reg(c))
		c.setFlagsLogical(*reg(c))
		c.toFetch()
	})
	mop(baseDirect+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		if !c.indexedResolve(b, m, cy) {
			return
		}
		b.Write(m, c.tempAddr, *reg(c))
		c.setFlagsLogical(*reg(c))
		c.toFetch()
	})
}

// rmw8 registers a read-modify-write unary op (NEG/COM/LSR/ROR/ASR/
// ASL/ROL/DEC/INC/TST/CLR) across direct/indexed/extended only; the
// inherent A/B forms are not registered here.
func rmw8(direct uint8, indexed uint8, extended uint8, op func(c *CPU, v uint8) uint8) {
	mop(direct, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := c.directAddr(b, m)
		b.Write(m, addr, op(c, b.Read(m, addr)))
		c.toFetch()
	})
	mop(indexed, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		if !c.indexedResolve(b, m, cy) {
			return
		}
		b.Write(m, c.tempAddr, op(c, b.Read(m, c.tempAddr)))
		c.toFetch()
	})
	mop(extended, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		b.Write(m, addr, op(c, b.Read(m, addr)))
		c.toFetch()
	})
}

func branchShort(cond func(c *CPU) bool) handlerFn {
	return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		off := int8(fetch8(c, b, m))
		if cond(c) {
			c.PC = uint16(int32(c.PC) + int32(off))
		}
		c.toFetch()
	}
}

func branchLong(cond func(c *CPU) bool) handlerFn {
	return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		off := int16(fetch16(c, b, m))
		if cond(c) {
			c.PC = uint16(int32(c.PC) + int32(off))
		}
		c.toFetch()
	}
}

var condTable = []func(c *CPU) bool{
	func(c *CPU) bool { return true },                       // BRA
	func(c *CPU) bool { return false },                      // BRN
	func(c *CPU) bool { return c.CC&(CcC|CcZ) == 0 },        // BHI
	func(c *CPU) bool { return c.CC&(CcC|CcZ) != 0 },        // BLS
	func(c *CPU) bool { return c.CC&CcC == 0 },              // BCC/BHS
	func(c *CPU) bool { return c.CC&CcC != 0 },              // BCS/BLO
	func(c *CPU) bool { return c.CC&CcZ == 0 },               // BNE
	func(c *CPU) bool { return c.CC&CcZ != 0 },               // BEQ
	func(c *CPU) bool { return c.CC&CcV == 0 },               // BVC
	func(c *CPU) bool { return c.CC&CcV != 0 },               // BVS
	func(c *CPU) bool { return c.CC&CcN == 0 },               // BPL
	func(c *CPU) bool { return c.CC&CcN != 0 },               // BMI
	func(c *CPU) bool { return (c.CC&CcN != 0) == (c.CC&CcV != 0) },  // BGE
	func(c *CPU) bool { return (c.CC&CcN != 0) != (c.CC&CcV != 0) },  // BLT
	func(c *CPU) bool { return c.CC&CcZ == 0 && (c.CC&CcN != 0) == (c.CC&CcV != 0) }, // BGT
	func(c *CPU) bool { return c.CC&CcZ != 0 || (c.CC&CcN != 0) != (c.CC&CcV != 0) }, // BLE
}

// pshPull mask bit order (high to low): PC,U/S,Y,X,DP,B,A,CC
func (c *CPU) pushMasked(b bus.Bus, m bus.Master, mask uint8, useU bool) {
	other := c.U
	if useU {
		other = c.S
	}
	if mask&0x80 != 0 {
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
	}
	if mask&0x40 != 0 {
		c.push8(b, m, uint8(other))
		c.push8(b, m, uint8(other>>8))
	}
	if mask&0x20 != 0 {
		c.push8(b, m, uint8(c.Y))
		c.push8(b, m, uint8(c.Y>>8))
	}
	if mask&0x10 != 0 {
		c.push8(b, m, uint8(c.X))
		c.push8(b, m, uint8(c.X>>8))
	}
	if mask&0x08 != 0 {
		c.push8(b, m, c.DP)
	}
	if mask&0x04 != 0 {
		c.push8(b, m, c.B)
	}
	if mask&0x02 != 0 {
		c.push8(b, m, c.A)
	}
	if mask&0x01 != 0 {
		c.push8(b, m, c.CC)
	}
}

func (c *CPU) pullMasked(b bus.Bus, m bus.Master, mask uint8, useU bool) {
	if mask&0x01 != 0 {
		c.CC = c.pull8(b, m)
	}
	if mask&0x02 != 0 {
		c.A = c.pull8(b, m)
	}
	if mask&0x04 != 0 {
		c.B = c.pull8(b, m)
	}
	if mask&0x08 != 0 {
		c.DP = c.pull8(b, m)
	}
	if mask&0x10 != 0 {
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		c.X = hi<<8 | lo
	}
	if mask&0x20 != 0 {
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		c.Y = hi<<8 | lo
	}
	if mask&0x40 != 0 {
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		if useU {
			c.S = hi<<8 | lo
		} else {
			c.U = hi<<8 | lo
		}
	}
	if mask&0x80 != 0 {
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		c.PC = hi<<8 | lo
	}
}

func init() {
	regA := func(c *CPU) *uint8 { return &c.A }
	regB := func(c *CPU) *uint8 { return &c.B }

	aluReg8(0x80, regA, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, false) })  // SUBA
	aluReg8(0x82, regA, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, true) })   // SBCA
	aluReg8(0x84, regA, func(c *CPU, a, v uint8) uint8 { return c.and8(a, v) })         // ANDA
	aluReg8(0x88, regA, func(c *CPU, a, v uint8) uint8 { return c.eor8(a, v) })         // EORA
	aluReg8(0x89, regA, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, true) })   // ADCA
	aluReg8(0x8A, regA, func(c *CPU, a, v uint8) uint8 { return c.or8(a, v) })          // ORA
	aluReg8(0x8B, regA, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, false) })  // ADDA
	aluReadOnly8(0x81, regA, func(c *CPU, a, v uint8) { c.cmp8(a, v) })                 // CMPA
	aluReadOnly8(0x85, regA, func(c *CPU, a, v uint8) { c.bit8(a, v) })                 // BITA

	aluReg8(0xC0, regB, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, false) })
	aluReg8(0xC2, regB, func(c *CPU, a, v uint8) uint8 { return c.sub8(a, v, true) })
	aluReg8(0xC4, regB, func(c *CPU, a, v uint8) uint8 { return c.and8(a, v) })
	aluReg8(0xC8, regB, func(c *CPU, a, v uint8) uint8 { return c.eor8(a, v) })
	aluReg8(0xC9, regB, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, true) })
	aluReg8(0xCA, regB, func(c *CPU, a, v uint8) uint8 { return c.or8(a, v) })
	aluReg8(0xCB, regB, func(c *CPU, a, v uint8) uint8 { return c.add8(a, v, false) })
	aluReadOnly8(0xC1, regB, func(c *CPU, a, v uint8) { c.cmp8(a, v) })
	aluReadOnly8(0xC5, regB, func(c *CPU, a, v uint8) { c.bit8(a, v) })

	ld8(0x96, regA) // also registers LDA immediate at 0x86
	st8(0x97, regA)
	ld8(0xD6, regB) // also registers LDB immediate at 0xC6
	st8(0xD7, regB)

	// 16-bit D/X/Y/U/S loads, stores, ADDD/SUBD/CMPD
	ld16 := func(imm, direct uint8, reg func(c *CPU) uint16, set func(c *CPU, v uint16)) {
		mop(imm, func(c *CPU, b bus.Bus, m bus.Master, cy int) { v := fetch16(c, b, m); set(c, v); c.setFlagsLogical16(v); c.toFetch() })
		mop(direct, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := c.directAddr(b, m)
			hi := uint16(b.Read(m, addr))
			lo := uint16(b.Read(m, addr+1))
			v := hi<<8 | lo
			set(c, v)
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		mop(direct+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := fetch16(c, b, m)
			hi := uint16(b.Read(m, addr))
			lo := uint16(b.Read(m, addr+1))
			v := hi<<8 | lo
			set(c, v)
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		mop(direct+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			if !c.indexedResolve(b, m, cy) {
				return
			}
			hi := uint16(b.Read(m, c.tempAddr))
			lo := uint16(b.Read(m, c.tempAddr+1))
			v := hi<<8 | lo
			set(c, v)
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		_ = reg
	}
	st16 := func(direct uint8, reg func(c *CPU) uint16) {
		mop(direct, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := c.directAddr(b, m)
			v := reg(c)
			b.Write(m, addr, uint8(v>>8))
			b.Write(m, addr+1, uint8(v))
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		mop(direct+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := fetch16(c, b, m)
			v := reg(c)
			b.Write(m, addr, uint8(v>>8))
			b.Write(m, addr+1, uint8(v))
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		mop(direct+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			if !c.indexedResolve(b, m, cy) {
				return
			}
			v := reg(c)
			b.Write(m, c.tempAddr, uint8(v>>8))
			b.Write(m, c.tempAddr+1, uint8(v))
			c.setFlagsLogical16(v)
			c.toFetch()
		})
	}
	ld16(0xCC, 0xDC, func(c *CPU) uint16 { return c.d() }, func(c *CPU, v uint16) { c.setD(v) }) // LDD
	st16(0xDD, func(c *CPU) uint16 { return c.d() })                                             // STD
	ld16(0x8E, 0x9E, func(c *CPU) uint16 { return c.X }, func(c *CPU, v uint16) { c.X = v })      // LDX
	st16(0x9F, func(c *CPU) uint16 { return c.X })                                                // STX
	ld16(0xCE, 0xDE, func(c *CPU) uint16 { return c.U }, func(c *CPU, v uint16) { c.U = v })      // LDU
	st16(0xDF, func(c *CPU) uint16 { return c.U })                                                // STU

	mop(0x83, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setD(c.sub16(c.d(), fetch16(c, b, m))); c.toFetch() })  // SUBD
	mop(0xC3, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.setD(c.add16(c.d(), fetch16(c, b, m))); c.toFetch() })  // ADDD
	mop(0x8C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cmp16(c.X, fetch16(c, b, m)); c.toFetch() }) // CMPX immediate
	mop(0x9C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // CMPX direct
		addr := c.directAddr(b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.cmp16(c.X, hi<<8|lo)
		c.toFetch()
	})
	mop(0xBC, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // CMPX extended
		addr := fetch16(c, b, m)
		hi := uint16(b.Read(m, addr))
		lo := uint16(b.Read(m, addr+1))
		c.cmp16(c.X, hi<<8|lo)
		c.toFetch()
	})

	// Inherent shift/unary for A and B
	mop(0x40, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.neg(c.A); c.toFetch() })
	mop(0x43, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.com(c.A); c.toFetch() })
	mop(0x44, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.lsr(c.A); c.toFetch() })
	mop(0x46, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.ror(c.A); c.toFetch() })
	mop(0x47, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.asr(c.A); c.toFetch() })
	mop(0x48, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.asl(c.A); c.toFetch() })
	mop(0x49, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.rol(c.A); c.toFetch() })
	mop(0x4A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.dec(c.A); c.toFetch() })
	mop(0x4C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = c.inc(c.A); c.toFetch() })
	mop(0x4D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.tst(c.A); c.toFetch() })
	mop(0x4F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = 0; c.setFlagsLogical(0); c.setFlag(CcC, false); c.toFetch() })

	mop(0x50, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.neg(c.B); c.toFetch() })
	mop(0x53, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.com(c.B); c.toFetch() })
	mop(0x54, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.lsr(c.B); c.toFetch() })
	mop(0x56, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.ror(c.B); c.toFetch() })
	mop(0x57, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.asr(c.B); c.toFetch() })
	mop(0x58, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.asl(c.B); c.toFetch() })
	mop(0x59, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.rol(c.B); c.toFetch() })
	mop(0x5A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.dec(c.B); c.toFetch() })
	mop(0x5C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = c.inc(c.B); c.toFetch() })
	mop(0x5D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.tst(c.B); c.toFetch() })
	mop(0x5F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.B = 0; c.setFlagsLogical(0); c.setFlag(CcC, false); c.toFetch() })

	// Memory unary/shift: direct 0x00-0x0F, indexed 0x60-0x6F, extended 0x70-0x7F
	rmw8(0x00, 0x60, 0x70, func(c *CPU, v uint8) uint8 { return c.neg(v) })
	rmw8(0x03, 0x63, 0x73, func(c *CPU, v uint8) uint8 { return c.com(v) })
	rmw8(0x04, 0x64, 0x74, func(c *CPU, v uint8) uint8 { return c.lsr(v) })
	rmw8(0x06, 0x66, 0x76, func(c *CPU, v uint8) uint8 { return c.ror(v) })
	rmw8(0x07, 0x67, 0x77, func(c *CPU, v uint8) uint8 { return c.asr(v) })
	rmw8(0x08, 0x68, 0x78, func(c *CPU, v uint8) uint8 { return c.asl(v) })
	rmw8(0x09, 0x69, 0x79, func(c *CPU, v uint8) uint8 { return c.rol(v) })
	rmw8(0x0A, 0x6A, 0x7A, func(c *CPU, v uint8) uint8 { return c.dec(v) })
	rmw8(0x0C, 0x6C, 0x7C, func(c *CPU, v uint8) uint8 { return c.inc(v) })
	rmw8(0x0D, 0x6D, 0x7D, func(c *CPU, v uint8) uint8 { c.tst(v); return v })
	rmw8(0x0F, 0x6F, 0x7F, func(c *CPU, v uint8) uint8 { c.setFlagsLogical(0); c.setFlag(CcC, false); return 0 })

	mop(0x0E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = c.directAddr(b, m); c.toFetch() })       // JMP direct
	mop(0x6E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // JMP indexed
		if !c.indexedResolve(b, m, cy) {
			return
		}
		c.PC = c.tempAddr
		c.toFetch()
	})
	mop(0x7E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = fetch16(c, b, m); c.toFetch() }) // JMP extended

	mop(0x9D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // JSR direct
		addr := c.directAddr(b, m)
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.PC = addr
		c.toFetch()
	})
	mop(0xAD, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // JSR indexed
		if !c.indexedResolve(b, m, cy) {
			return
		}
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.PC = c.tempAddr
		c.toFetch()
	})
	mop(0xBD, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // JSR extended
		addr := fetch16(c, b, m)
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.PC = addr
		c.toFetch()
	})

	mop(0x8D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // BSR
		off := int8(fetch8(c, b, m))
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.PC = uint16(int32(c.PC) + int32(off))
		c.toFetch()
	})
	mop(0x17, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // LBSR
		off := int16(fetch16(c, b, m))
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.PC = uint16(int32(c.PC) + int32(off))
		c.toFetch()
	})
	mop(0x16, branchLong(func(c *CPU) bool { return true })) // LBRA

	mop(0x39, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // RTS
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		c.PC = hi<<8 | lo
		c.toFetch()
	})
	mop(0x3B, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // RTI
		c.CC = c.pull8(b, m)
		if c.CC&CcE != 0 {
			c.A = c.pull8(b, m)
			c.B = c.pull8(b, m)
			c.DP = c.pull8(b, m)
			xh, xl := uint16(c.pull8(b, m)), uint16(c.pull8(b, m))
			c.X = xh<<8 | xl
			yh, yl := uint16(c.pull8(b, m)), uint16(c.pull8(b, m))
			c.Y = yh<<8 | yl
			uh, ul := uint16(c.pull8(b, m)), uint16(c.pull8(b, m))
			c.U = uh<<8 | ul
		}
		hi := uint16(c.pull8(b, m))
		lo := uint16(c.pull8(b, m))
		c.PC = hi<<8 | lo
		c.toFetch()
	})
	mop(0x3F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // SWI
		c.setFlag(CcE, true)
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.push8(b, m, uint8(c.U))
		c.push8(b, m, uint8(c.U>>8))
		c.push8(b, m, uint8(c.Y))
		c.push8(b, m, uint8(c.Y>>8))
		c.push8(b, m, uint8(c.X))
		c.push8(b, m, uint8(c.X>>8))
		c.push8(b, m, c.DP)
		c.push8(b, m, c.B)
		c.push8(b, m, c.A)
		c.push8(b, m, c.CC)
		c.setFlag(CcI, true)
		c.setFlag(CcF, true)
		lo := uint16(b.Read(m, 0xFFFA))
		hi := uint16(b.Read(m, 0xFFFB))
		c.PC = hi<<8 | lo
		c.toFetch()
	})

	// Stack: PSHS/PULS/PSHU/PULU
	mop(0x34, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.pushMasked(b, m, fetch8(c, b, m), false); c.toFetch() })
	mop(0x35, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.pullMasked(b, m, fetch8(c, b, m), false); c.toFetch() })
	mop(0x36, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.pushMasked(b, m, fetch8(c, b, m), true); c.toFetch() })
	mop(0x37, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.pullMasked(b, m, fetch8(c, b, m), true); c.toFetch() })

	// LEA
	leaOp := func(set func(c *CPU, v uint16), affectsZ bool) handlerFn {
		return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			if !c.indexedResolve(b, m, cy) {
				return
			}
			set(c, c.tempAddr)
			if affectsZ {
				c.setFlag(CcZ, c.tempAddr == 0)
			}
			c.toFetch()
		}
	}
	mop(0x30, leaOp(func(c *CPU, v uint16) { c.X = v }, true))
	mop(0x31, leaOp(func(c *CPU, v uint16) { c.Y = v }, true))
	mop(0x32, leaOp(func(c *CPU, v uint16) { c.S = v }, false))
	mop(0x33, leaOp(func(c *CPU, v uint16) { c.U = v }, false))

	// Branches, short, 0x20-0x2F
	for i, cond := range condTable {
		code := uint8(0x20 + i)
		mop(code, branchShort(cond))
	}
	// Long branches, page2, 0x21-0x2F (LBRN..LBLE; LBRA/LBSR live on
	// the main page at 0x16/0x17 and are registered separately)
	for i := 1; i < len(condTable); i++ {
		code := uint8(0x20 + i)
		p2op(code, branchLong(condTable[i]))
	}

	mop(0x12, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.toFetch() }) // NOP
	mop(0x1A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.CC |= fetch8(c, b, m); c.toFetch() }) // ORCC
	mop(0x1C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.CC &= fetch8(c, b, m); c.toFetch() }) // ANDCC
	mop(0x1D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // SEX
		if c.B&0x80 != 0 {
			c.A = 0xFF
		} else {
			c.A = 0
		}
		c.setFlagsLogical16(c.d())
		c.toFetch()
	})
	mop(0x19, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.daa(); c.toFetch() })
	mop(0x3D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // MUL
		r := uint16(c.A) * uint16(c.B)
		c.setD(r)
		c.setFlag(CcZ, r == 0)
		c.setFlag(CcC, c.B&0x80 != 0)
		c.toFetch()
	})
	mop(0x3A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.X += uint16(c.B); c.toFetch() }) // ABX

	mop(0x1E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // EXG
		pb := fetch8(c, b, m)
		dst, src := pb&0x0F, pb>>4
		c.exgTfr(dst, src, true)
		c.toFetch()
	})
	mop(0x1F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // TFR
		pb := fetch8(c, b, m)
		dst, src := pb&0x0F, pb>>4
		c.exgTfr(dst, src, false)
		c.toFetch()
	})

	initPage2Page3()
}

func (c *CPU) exgTfr(dst, src uint8, exchange bool) {
	get := func(sel uint8) uint16 {
		switch sel {
		case 0:
			return c.d()
		case 1:
			return c.X
		case 2:
			return c.Y
		case 3:
			return c.U
		case 4:
			return c.S
		case 5:
			return c.PC
		case 8:
			return uint16(c.A) | 0xFF00
		case 9:
			return uint16(c.B) | 0xFF00
		case 0xA:
			return uint16(c.CC) | 0xFF00
		case 0xB:
			return uint16(c.DP) | 0xFF00
		}
		return 0
	}
	set := func(sel uint8, v uint16) {
		switch sel {
		case 0:
			c.setD(v)
		case 1:
			c.X = v
		case 2:
			c.Y = v
		case 3:
			c.U = v
		case 4:
			c.S = v
		case 5:
			c.PC = v
		case 8:
			c.A = uint8(v)
		case 9:
			c.B = uint8(v)
		case 0xA:
			c.CC = uint8(v)
		case 0xB:
			c.DP = uint8(v)
		}
	}
	sv, dv := get(src), get(dst)
	set(dst, sv)
	if exchange {
		set(src, dv)
	}
}

func initPage2Page3() {
	p2op(0x3F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // SWI2
		c.swiTo(b, m, 0xFFF4)
	})
	p3op(0x3F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // SWI3
		c.swiTo(b, m, 0xFFF2)
	})

	ld16p2 := func(imm, direct uint8, set func(c *CPU, v uint16)) {
		p2op(imm, func(c *CPU, b bus.Bus, m bus.Master, cy int) { v := fetch16(c, b, m); set(c, v); c.setFlagsLogical16(v); c.toFetch() })
		p2op(direct, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := c.directAddr(b, m)
			hi := uint16(b.Read(m, addr))
			lo := uint16(b.Read(m, addr+1))
			v := hi<<8 | lo
			set(c, v)
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		p2op(direct+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := fetch16(c, b, m)
			hi := uint16(b.Read(m, addr))
			lo := uint16(b.Read(m, addr+1))
			v := hi<<8 | lo
			set(c, v)
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		p2op(direct+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			if !c.indexedResolve(b, m, cy) {
				return
			}
			hi := uint16(b.Read(m, c.tempAddr))
			lo := uint16(b.Read(m, c.tempAddr+1))
			v := hi<<8 | lo
			set(c, v)
			c.setFlagsLogical16(v)
			c.toFetch()
		})
	}
	st16p2 := func(direct uint8, reg func(c *CPU) uint16) {
		p2op(direct, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := c.directAddr(b, m)
			v := reg(c)
			b.Write(m, addr, uint8(v>>8))
			b.Write(m, addr+1, uint8(v))
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		p2op(direct+0x20, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := fetch16(c, b, m)
			v := reg(c)
			b.Write(m, addr, uint8(v>>8))
			b.Write(m, addr+1, uint8(v))
			c.setFlagsLogical16(v)
			c.toFetch()
		})
		p2op(direct+0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			if !c.indexedResolve(b, m, cy) {
				return
			}
			v := reg(c)
			b.Write(m, c.tempAddr, uint8(v>>8))
			b.Write(m, c.tempAddr+1, uint8(v))
			c.setFlagsLogical16(v)
			c.toFetch()
		})
	}
	ld16p2(0x8E, 0x9E, func(c *CPU, v uint16) { c.Y = v }) // LDY
	st16p2(0x9F, func(c *CPU) uint16 { return c.Y })       // STY
	ld16p2(0xCE, 0xDE, func(c *CPU, v uint16) { c.S = v }) // LDS
	st16p2(0xDF, func(c *CPU) uint16 { return c.S })       // STS

	p2op(0x83, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cmp16(c.d(), fetch16(c, b, m)); c.toFetch() })  // CMPD
	p2op(0x8C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cmp16(c.Y, fetch16(c, b, m)); c.toFetch() })    // CMPY
	p3op(0x83, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cmp16(c.U, fetch16(c, b, m)); c.toFetch() })    // CMPU
	p3op(0x8C, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.cmp16(c.S, fetch16(c, b, m)); c.toFetch() })    // CMPS
}

func (c *CPU) swiTo(b bus.Bus, m bus.Master, vector uint16) {
	c.setFlag(CcE, true)
	c.push8(b, m, uint8(c.PC))
	c.push8(b, m, uint8(c.PC>>8))
	c.push8(b, m, uint8(c.U))
	c.push8(b, m, uint8(c.U>>8))
	c.push8(b, m, uint8(c.Y))
	c.push8(b, m, uint8(c.Y>>8))
	c.push8(b, m, uint8(c.X))
	c.push8(b, m, uint8(c.X>>8))
	c.push8(b, m, c.DP)
	c.push8(b, m, c.B)
	c.push8(b, m, c.A)
	c.push8(b, m, c.CC)
	lo := uint16(b.Read(m, vector))
	hi := uint16(b.Read(m, vector+1))
	c.PC = hi<<8 | lo
	c.toFetch()
}

// daa implements the 6809's decimal adjust: clears V, may set but
// never clears C.
func (c *CPU) daa() {
	a := c.A
	carry := c.CC&CcC != 0
	half := c.CC&CcH != 0
	adjust := uint8(0)
	if half || a&0x0F > 9 {
		adjust |= 0x06
	}
	if carry || a > 0x99 || (a&0xF0 > 0x90 && a&0x0F > 9) {
		adjust |= 0x60
		carry = true
	}
	r := uint16(a) + uint16(adjust)
	c.A = uint8(r)
	c.setFlag(CcN, c.A&0x80 != 0)
	c.setFlag(CcZ, c.A == 0)
	c.setFlag(CcV, false)
	if carry {
		c.setFlag(CcC, true)
	}
}
