package z80

import "github.com/master-g/corecade/bus"

// indexOpcodes holds the curated set of opcodes that actually
// substitute IX/IY for HL, or address (IX+d)/(IY+d), when reached
// under an active DD/FD prefix. Every other opcode falls through to
// mainOpcodes unmodified and behaves as if the prefix were never there;
// the prefix byte is read in the same tick as that opcode.
var indexOpcodes [256]handlerFn

// indexCBOpcodes holds the DD CB d / FD CB d rotate/BIT/RES/SET table.
// The displacement and trailing opcode byte are both already consumed
// by dispatchIndexPrefix before this table is reached.
var indexCBOpcodes [256]handlerFn

func indexop(code uint8, h handlerFn)   { indexOpcodes[code] = h }
func indexcbop(code uint8, h handlerFn) { indexCBOpcodes[code] = h }

func (c *CPU) indexAddr() uint16 {
	return uint16(int32(int16(*c.indexReg())) + int32(c.displacement))
}

func init() {
	// LD IX,nn / LD IY,nn
	indexop(0x21, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		*c.indexReg() = fetch16(c, b, m)
		c.toFetch()
	})
	// LD (nn),IX/IY
	indexop(0x22, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		v := *c.indexReg()
		b.Write(m, addr, uint8(v))
		b.Write(m, addr+1, uint8(v>>8))
		c.WZ = addr + 1
		c.toFetch()
	})
	// LD IX/IY,(nn)
	indexop(0x2A, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		lo := uint16(b.Read(m, addr))
		hi := uint16(b.Read(m, addr+1))
		*c.indexReg() = hi<<8 | lo
		c.WZ = addr + 1
		c.toFetch()
	})
	// INC IX/IY, DEC IX/IY
	indexop(0x23, func(c *CPU, b bus.Bus, m bus.Master, cy int) { *c.indexReg()++; c.toFetch() })
	indexop(0x2B, func(c *CPU, b bus.Bus, m bus.Master, cy int) { *c.indexReg()--; c.toFetch() })
	// ADD IX/IY,pp (BC/DE/ix-itself/SP); pp==2 means "the index register itself"
	addIdxPP := func(ss uint8) handlerFn {
		return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			var v uint16
			switch ss {
			case 0:
				v = c.bc()
			case 1:
				v = c.de()
			case 2:
				v = *c.indexReg()
			case 3:
				v = c.SP
			}
			idx := c.indexReg()
			hl := *idx
			r := uint32(hl) + uint32(v)
			half := (hl ^ v ^ uint16(r)) & 0x1000
			if half != 0 {
				c.F |= FlagH
			} else {
				c.F &^= FlagH
			}
			if r&0x10000 != 0 {
				c.F |= FlagC
			} else {
				c.F &^= FlagC
			}
			c.F &^= FlagN
			c.F = (c.F &^ (FlagX | FlagY)) | (uint8(r>>8) & (FlagX | FlagY))
			*idx = uint16(r)
			c.q = c.F
			c.toFetch()
		}
	}
	indexop(0x09, addIdxPP(0))
	indexop(0x19, addIdxPP(1))
	indexop(0x29, addIdxPP(2))
	indexop(0x39, addIdxPP(3))
	// PUSH IX/IY, POP IX/IY
	indexop(0xE5, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.push16(b, m, *c.indexReg()); c.toFetch() })
	indexop(0xE1, func(c *CPU, b bus.Bus, m bus.Master, cy int) { *c.indexReg() = c.pop16(b, m); c.toFetch() })
	// EX (SP),IX/IY
	indexop(0xE3, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		idx := c.indexReg()
		lo := uint16(b.Read(m, c.SP))
		hi := uint16(b.Read(m, c.SP+1))
		old := *idx
		b.Write(m, c.SP, uint8(old))
		b.Write(m, c.SP+1, uint8(old>>8))
		*idx = hi<<8 | lo
		c.WZ = *idx
		c.toFetch()
	})
	// JP (IX)/(IY): no indirection, PC takes the register value itself
	indexop(0xE9, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = *c.indexReg(); c.toFetch() })
	// LD SP,IX/IY
	indexop(0xF9, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.SP = *c.indexReg(); c.toFetch() })

	// INC (IX+d) / DEC (IX+d)
	indexop(0x34, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.displacement = int8(fetch8(c, b, m))
		addr := c.indexAddr()
		v := b.Read(m, addr)
		b.Write(m, addr, c.inc8(v))
		c.toFetch()
	})
	indexop(0x35, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.displacement = int8(fetch8(c, b, m))
		addr := c.indexAddr()
		v := b.Read(m, addr)
		b.Write(m, addr, c.dec8(v))
		c.toFetch()
	})
	// LD (IX+d),n
	indexop(0x36, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.displacement = int8(fetch8(c, b, m))
		n := fetch8(c, b, m)
		b.Write(m, c.indexAddr(), n)
		c.toFetch()
	})

	// LD r,(IX+d)
	ldRIndexed := func(dst uint8) handlerFn {
		return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.displacement = int8(fetch8(c, b, m))
			v := b.Read(m, c.indexAddr())
			*c.reg8Name(dst) = v
			c.toFetch()
		}
	}
	indexop(0x46, ldRIndexed(0)) // B
	indexop(0x4E, ldRIndexed(1)) // C
	indexop(0x56, ldRIndexed(2)) // D
	indexop(0x5E, ldRIndexed(3)) // E
	indexop(0x66, ldRIndexed(4)) // H
	indexop(0x6E, ldRIndexed(5)) // L
	indexop(0x7E, ldRIndexed(7)) // A

	// LD (IX+d),r
	ldIndexedR := func(src uint8) handlerFn {
		return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.displacement = int8(fetch8(c, b, m))
			b.Write(m, c.indexAddr(), *c.reg8Name(src))
			c.toFetch()
		}
	}
	indexop(0x70, ldIndexedR(0))
	indexop(0x71, ldIndexedR(1))
	indexop(0x72, ldIndexedR(2))
	indexop(0x73, ldIndexedR(3))
	indexop(0x74, ldIndexedR(4))
	indexop(0x75, ldIndexedR(5))
	indexop(0x77, ldIndexedR(7))

	// ALU A,(IX+d)
	aluIndexed := func(f func(c *CPU, v uint8)) handlerFn {
		return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.displacement = int8(fetch8(c, b, m))
			v := b.Read(m, c.indexAddr())
			f(c, v)
			c.toFetch()
		}
	}
	indexop(0x86, aluIndexed(func(c *CPU, v uint8) { c.add8(v, false) }))
	indexop(0x8E, aluIndexed(func(c *CPU, v uint8) { c.add8(v, true) }))
	indexop(0x96, aluIndexed(func(c *CPU, v uint8) { c.sub8(v, false) }))
	indexop(0x9E, aluIndexed(func(c *CPU, v uint8) { c.sub8(v, true) }))
	indexop(0xA6, aluIndexed(func(c *CPU, v uint8) { c.and8(v) }))
	indexop(0xAE, aluIndexed(func(c *CPU, v uint8) { c.xor8(v) }))
	indexop(0xB6, aluIndexed(func(c *CPU, v uint8) { c.or8(v) }))
	indexop(0xBE, aluIndexed(func(c *CPU, v uint8) { c.cp8(v) }))

	initIndexCB()
}

// initIndexCB registers DD CB d/FD CB d rotate, BIT, RES and SET
// against (IX+d)/(IY+d). The undocumented copy-into-register side
// effect (present on real silicon for every opcode except the BIT
// group) is reproduced via the rr index when rr != 6.
func initIndexCB() {
	for group := uint8(0); group < 8; group++ {
		for r := uint8(0); r < 8; r++ {
			code := group*8 + r
			g, rr := group, r
			indexcbop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
				addr := c.indexAddr()
				v := b.Read(m, addr)
				res := c.rot(g, v)
				b.Write(m, addr, res)
				if rr != 6 {
					*c.reg8Name(rr) = res
				}
				c.toFetch()
			})
		}
	}
	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			code := 0x40 + n*8 + r
			nn := n
			indexcbop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
				addr := c.indexAddr()
				v := b.Read(m, addr)
				c.bit(nn, v)
				c.F = (c.F &^ (FlagX | FlagY)) | (uint8(addr>>8) & (FlagX | FlagY))
				c.toFetch()
			})
		}
	}
	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			code := 0x80 + n*8 + r
			nn, rr := n, r
			indexcbop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
				addr := c.indexAddr()
				v := b.Read(m, addr) &^ (1 << nn)
				b.Write(m, addr, v)
				if rr != 6 {
					*c.reg8Name(rr) = v
				}
				c.toFetch()
			})
		}
	}
	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			code := 0xC0 + n*8 + r
			nn, rr := n, r
			indexcbop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
				addr := c.indexAddr()
				v := b.Read(m, addr) | (1 << nn)
				b.Write(m, addr, v)
				if rr != 6 {
					*c.reg8Name(rr) = v
				}
				c.toFetch()
			})
		}
	}
}
