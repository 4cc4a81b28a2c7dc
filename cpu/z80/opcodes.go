package z80

import "github.com/master-g/corecade/bus"

type handlerFn func(c *CPU, b bus.Bus, m bus.Master, cycle int)

var mainOpcodes [256]handlerFn
var cbOpcodes [256]handlerFn
var edOpcodes [256]handlerFn

func mop(code uint8, h handlerFn) { mainOpcodes[code] = h }
func cbop(code uint8, h handlerFn) { cbOpcodes[code] = h }
func edop(code uint8, h handlerFn) { edOpcodes[code] = h }

func fetch8(c *CPU, b bus.Bus, m bus.Master) uint8 {
	v := b.Read(m, c.PC)
	c.PC++
	return v
}

func fetch16(c *CPU, b bus.Bus, m bus.Master) uint16 {
	lo := uint16(fetch8(c, b, m))
	hi := uint16(fetch8(c, b, m))
	return hi<<8 | lo
}

func (c *CPU) getPair16(i uint8) uint16 {
	switch i & 3 {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	case 3:
		return c.SP
	}
	return 0
}

func (c *CPU) setPair16(i uint8, v uint16) {
	switch i & 3 {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	case 3:
		c.SP = v
	}
}

func init() {
	// ---- LD r,r' (0x40-0x7F, excluding 0x76=HALT) ----
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			code := 0x40 + dst*8 + src
			if code == 0x76 {
				continue
			}
			d, s := dst, src
			mop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
				v := c.readR8(b, m, s)
				c.writeR8(b, m, d, v)
				c.toFetch()
			})
		}
	}
	mop(0x76, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.halted = true
		c.toFetch()
	})

	// ---- LD r,n ----
	for dst := uint8(0); dst < 8; dst++ {
		d := dst
		code := 0x06 + d*8
		mop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			switch cy {
			case 0:
				c.tempData = fetch8(c, b, m)
				if d == 6 {
					c.addT(tMW)
					c.toExecute(1)
					return
				}
				*c.reg8Name(d) = c.tempData
				c.toFetch()
			case 1:
				b.Write(m, c.hl(), c.tempData)
				c.toFetch()
			}
		})
	}

	// ---- ALU A,r (0x80-0xBF) ----
	aluOps := []func(c *CPU, v uint8){
		func(c *CPU, v uint8) { c.add8(v, false) },
		func(c *CPU, v uint8) { c.add8(v, true) },
		func(c *CPU, v uint8) { c.sub8(v, false) },
		func(c *CPU, v uint8) { c.sub8(v, true) },
		func(c *CPU, v uint8) { c.and8(v) },
		func(c *CPU, v uint8) { c.xor8(v) },
		func(c *CPU, v uint8) { c.or8(v) },
		func(c *CPU, v uint8) { c.cp8(v) },
	}
	for group := uint8(0); group < 8; group++ {
		for src := uint8(0); src < 8; src++ {
			code := 0x80 + group*8 + src
			g, s := group, src
			mop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
				v := c.readR8(b, m, s)
				aluOps[g](c, v)
				c.toFetch()
			})
		}
		// ALU A,n immediate form at 0xC6,CE,D6,DE,E6,EE,F6,FE
		code := 0xC6 + group*8
		g := group
		mop(code, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			v := fetch8(c, b, m)
			aluOps[g](c, v)
			c.toFetch()
		})
	}

	// ---- INC/DEC r (0x04,0x0C,...,0x3C / 0x05,0x0D,...,0x3D) ----
	for r := uint8(0); r < 8; r++ {
		rr := r
		mop(0x04+rr*8, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			switch cy {
			case 0:
				v := c.readR8(b, m, rr)
				r2 := c.inc8(v)
				if rr == 6 {
					c.toExecute(1)
					c.tempData = r2
					return
				}
				*c.reg8Name(rr) = r2
				c.toFetch()
			case 1:
				b.Write(m, c.hl(), c.tempData)
				c.toFetch()
			}
		})
		mop(0x05+rr*8, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			switch cy {
			case 0:
				v := c.readR8(b, m, rr)
				r2 := c.dec8(v)
				if rr == 6 {
					c.toExecute(1)
					c.tempData = r2
					return
				}
				*c.reg8Name(rr) = r2
				c.toFetch()
			case 1:
				b.Write(m, c.hl(), c.tempData)
				c.toFetch()
			}
		})
	}

	// ---- 16-bit LD dd,nn / INC ss / DEC ss / ADD HL,ss ----
	for p := uint8(0); p < 4; p++ {
		pp := p
		mop(0x01+pp*16, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			v := fetch16(c, b, m)
			c.setPair16(pp, v)
			c.toFetch()
		})
		mop(0x03+pp*16, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.setPair16(pp, c.getPair16(pp)+1)
			c.toFetch()
		})
		mop(0x0B+pp*16, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.setPair16(pp, c.getPair16(pp)-1)
			c.toFetch()
		})
		mop(0x09+pp*16, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.addHL16(c.getPair16(pp))
			c.toFetch()
		})
	}

	// ---- LD A,(BC)/(DE) and reverse, LD (nn),A / A,(nn) ----
	mop(0x0A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = b.Read(m, c.bc()); c.WZ = c.bc() + 1; c.toFetch() })
	mop(0x1A, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.A = b.Read(m, c.de()); c.WZ = c.de() + 1; c.toFetch() })
	mop(0x02, func(c *CPU, b bus.Bus, m bus.Master, cy int) { b.Write(m, c.bc(), c.A); c.toFetch() })
	mop(0x12, func(c *CPU, b bus.Bus, m bus.Master, cy int) { b.Write(m, c.de(), c.A); c.toFetch() })
	mop(0x3A, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		c.A = b.Read(m, addr)
		c.WZ = addr + 1
		c.toFetch()
	})
	mop(0x32, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		b.Write(m, addr, c.A)
		c.WZ = (uint16(c.A) << 8) | ((addr + 1) & 0xFF)
		c.toFetch()
	})
	mop(0x22, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		b.Write(m, addr, c.L)
		b.Write(m, addr+1, c.H)
		c.WZ = addr + 1
		c.toFetch()
	})
	mop(0x2A, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		addr := fetch16(c, b, m)
		c.L = b.Read(m, addr)
		c.H = b.Read(m, addr+1)
		c.WZ = addr + 1
		c.toFetch()
	})

	// ---- exchanges ----
	mop(0xEB, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E
		c.toFetch()
	})
	mop(0x08, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.A, c.A2 = c.A2, c.A
		c.F, c.F2 = c.F2, c.F
		c.toFetch()
	})
	mop(0xD9, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.B, c.B2 = c.B2, c.B
		c.C, c.C2 = c.C2, c.C
		c.D, c.D2 = c.D2, c.D
		c.E, c.E2 = c.E2, c.E
		c.H, c.H2 = c.H2, c.H
		c.L, c.L2 = c.L2, c.L
		c.toFetch()
	})
	mop(0xE3, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		lo := b.Read(m, c.SP)
		hi := b.Read(m, c.SP+1)
		b.Write(m, c.SP, c.L)
		b.Write(m, c.SP+1, c.H)
		c.L, c.H = lo, hi
		c.WZ = c.hl()
		c.toFetch()
	})

	// ---- PUSH/POP ----
	pushPopPair := func(i uint8) (get func(*CPU) uint16, set func(*CPU, uint16)) {
		switch i & 3 {
		case 0:
			return func(c *CPU) uint16 { return c.bc() }, func(c *CPU, v uint16) { c.setBC(v) }
		case 1:
			return func(c *CPU) uint16 { return c.de() }, func(c *CPU, v uint16) { c.setDE(v) }
		case 2:
			return func(c *CPU) uint16 { return c.hl() }, func(c *CPU, v uint16) { c.setHL(v) }
		default:
			return func(c *CPU) uint16 { return uint16(c.A)<<8 | uint16(c.F) },
				func(c *CPU, v uint16) { c.A = uint8(v >> 8); c.F = uint8(v) }
		}
	}
	for p := uint8(0); p < 4; p++ {
		get, set := pushPopPair(p)
		mop(0xC1+p*16, func(c *CPU, b bus.Bus, m bus.Master, cy int) { set(c, c.pop16(b, m)); c.toFetch() })
		mop(0xC5+p*16, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.push16(b, m, get(c)); c.toFetch() })
	}

	// ---- jumps / calls / returns / RST ----
	mop(0xC3, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = fetch16(c, b, m); c.WZ = c.PC; c.toFetch() })
	mop(0xE9, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = c.hl(); c.toFetch() })
	condTable := []func(c *CPU) bool{
		func(c *CPU) bool { return c.F&FlagZ == 0 },
		func(c *CPU) bool { return c.F&FlagZ != 0 },
		func(c *CPU) bool { return c.F&FlagC == 0 },
		func(c *CPU) bool { return c.F&FlagC != 0 },
		func(c *CPU) bool { return c.F&FlagPV == 0 },
		func(c *CPU) bool { return c.F&FlagPV != 0 },
		func(c *CPU) bool { return c.F&FlagS == 0 },
		func(c *CPU) bool { return c.F&FlagS != 0 },
	}
	for cc := uint8(0); cc < 8; cc++ {
		cond := condTable[cc]
		mop(0xC2+cc*8, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			addr := fetch16(c, b, m)
			c.WZ = addr
			if cond(c) {
				c.PC = addr
			}
			c.toFetch()
		})
		mop(0xC4+cc*8, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			switch cy {
			case 0:
				c.tempAddr = fetch16(c, b, m)
				c.WZ = c.tempAddr
				if !cond(c) {
					c.toFetch()
					return
				}
				c.toExecute(1)
			case 1:
				c.push16(b, m, c.PC)
				c.PC = c.tempAddr
				c.toFetch()
			}
		})
		mop(0xC0+cc*8, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			if !cond(c) {
				c.toFetch()
				return
			}
			c.PC = c.pop16(b, m)
			c.WZ = c.PC
			c.toFetch()
		})
	}
	mop(0xCD, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.tempAddr = fetch16(c, b, m)
			c.WZ = c.tempAddr
			c.toExecute(1)
		case 1:
			c.push16(b, m, c.PC)
			c.PC = c.tempAddr
			c.toFetch()
		}
	})
	mop(0xC9, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.PC = c.pop16(b, m); c.WZ = c.PC; c.toFetch() })
	for n := uint8(0); n < 8; n++ {
		addr := uint16(n) * 8
		mop(0xC7+n*8, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			c.push16(b, m, c.PC)
			c.PC = addr
			c.WZ = addr
			c.toFetch()
		})
	}
	mop(0x10, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		switch cy {
		case 0:
			c.tempData = fetch8(c, b, m)
			c.B--
			if c.B == 0 {
				c.toFetch()
				return
			}
			c.toExecute(1)
		case 1:
			c.PC = uint16(int32(c.PC) + int32(int8(c.tempData)))
			c.WZ = c.PC
			c.toFetch()
		}
	})
	mop(0x18, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		d := int8(fetch8(c, b, m))
		c.PC = uint16(int32(c.PC) + int32(d))
		c.WZ = c.PC
		c.toFetch()
	})
	jrCond := []func(c *CPU) bool{condTable[0], condTable[1], condTable[2], condTable[3]}
	jrOp := []uint8{0x20, 0x28, 0x30, 0x38}
	for i, code := range jrOp {
		cond := jrCond[i]
		cd := code
		mop(cd, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
			d := int8(fetch8(c, b, m))
			if cond(c) {
				c.PC = uint16(int32(c.PC) + int32(d))
				c.WZ = c.PC
			}
			c.toFetch()
		})
	}

	// ---- misc ----
	mop(0x00, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.toFetch() })
	mop(0xF3, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.IFF1, c.IFF2 = false, false; c.toFetch() })
	mop(0xFB, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.IFF1, c.IFF2 = true, true; c.toFetch() })
	mop(0x37, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // SCF
		c.scfCcf(true)
		c.toFetch()
	})
	mop(0x3F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // CCF
		c.scfCcf(false)
		c.toFetch()
	})
	mop(0x2F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // CPL
		c.A = ^c.A
		c.F |= FlagH | FlagN
		c.F = (c.F &^ (FlagX | FlagY)) | (c.A & (FlagX | FlagY))
		c.toFetch()
	})
	mop(0x27, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.daa(); c.toFetch() })

	// ---- I/O ----
	mop(0xDB, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // IN A,(n)
		n := fetch8(c, b, m)
		port := uint16(c.A)<<8 | uint16(n)
		c.WZ = port + 1
		c.A = b.IORead(m, port)
		c.toFetch()
	})
	mop(0xD3, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // OUT (n),A
		n := fetch8(c, b, m)
		port := uint16(c.A)<<8 | uint16(n)
		c.WZ = (port &^ 0xFF) | uint16(n+1)
		b.IOWrite(m, port, c.A)
		c.toFetch()
	})

	// ---- ED-prefixed: block ops, NEG, RETN/RETI, IM, LD A,I / LD A,R ----
	edop(0xA0, blockOp(1, false, false))  // LDI
	edop(0xB0, blockOp(1, false, true))   // LDIR
	edop(0xA8, blockOp(-1, false, false)) // LDD
	edop(0xB8, blockOp(-1, false, true))  // LDDR
	edop(0xA1, blockOp(1, true, false))   // CPI
	edop(0xB1, blockOp(1, true, true))    // CPIR
	edop(0xA9, blockOp(-1, true, false))  // CPD
	edop(0xB9, blockOp(-1, true, true))   // CPDR
	edop(0x44, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // NEG
		v := c.A
		c.A = 0
		c.sub8(v, false)
		c.toFetch()
	})
	edop(0x4D, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // RETI
		c.PC = c.pop16(b, m)
		c.IFF1 = c.IFF2
		c.toFetch()
	})
	edop(0x45, func(c *CPU, b bus.Bus, m bus.Master, cy int) { // RETN
		c.PC = c.pop16(b, m)
		c.IFF1 = c.IFF2
		c.toFetch()
	})
	edop(0x46, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.IM = 0; c.toFetch() })
	edop(0x56, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.IM = 1; c.toFetch() })
	edop(0x5E, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.IM = 2; c.toFetch() })
	edop(0x47, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.I = c.A; c.toFetch() })
	edop(0x4F, func(c *CPU, b bus.Bus, m bus.Master, cy int) { c.R = c.A; c.toFetch() })
	edop(0x57, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.A = c.I
		c.setSZXY(c.A)
		c.F &^= (FlagH | FlagN)
		if c.IFF2 {
			c.F |= FlagPV
		} else {
			c.F &^= FlagPV
		}
		c.toFetch()
	})
	edop(0x5F, func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		c.A = c.R
		c.setSZXY(c.A)
		c.F &^= (FlagH | FlagN)
		if c.IFF2 {
			c.F |= FlagPV
		} else {
			c.F &^= FlagPV
		}
		c.toFetch()
	})

	initCB()
}

// scfCcf implements SCF/CCF's documented X/Y quirk: if prev-Q (the F
// value the previous instruction committed) is zero, the X/Y source is
// A|F; otherwise it's just A.
func (c *CPU) scfCcf(setCarry bool) {
	var src uint8
	if c.prevQ == 0 {
		src = c.A | c.F
	} else {
		src = c.A
	}
	if setCarry {
		c.F |= FlagC
	} else {
		if c.F&FlagC != 0 {
			c.F |= FlagH
		} else {
			c.F &^= FlagH
		}
		c.F ^= FlagC
	}
	if setCarry {
		c.F &^= FlagH
	}
	c.F &^= FlagN
	c.F = (c.F &^ (FlagX | FlagY)) | (src & (FlagX | FlagY))
	c.q = c.F
}

func (c *CPU) daa() {
	a := c.A
	adjust := uint8(0)
	carry := c.F&FlagC != 0
	half := c.F&FlagH != 0
	sub := c.F&FlagN != 0

	if half || (!sub && a&0x0F > 9) {
		adjust |= 0x06
	}
	if carry || (!sub && a > 0x99) {
		adjust |= 0x60
		carry = true
	}
	if sub {
		if half {
			a -= 0x06
		}
		if c.F&FlagC != 0 {
			a -= 0x60
		}
	} else {
		a += adjust
	}
	c.A = a
	c.setSZXY(c.A)
	if parity(c.A) {
		c.F |= FlagPV
	} else {
		c.F &^= FlagPV
	}
	if carry {
		c.F |= FlagC
	} else {
		c.F &^= FlagC
	}
	c.q = c.F
}

// blockOp builds LDI/LDIR/CPI/CPIR/LDD/LDDR/CPD/CPDR. dir is +1 or -1;
// isCompare selects CPxx vs LDxx; repeat selects the *R variant.
func blockOp(dir int, isCompare bool, repeat bool) handlerFn {
	return func(c *CPU, b bus.Bus, m bus.Master, cy int) {
		hl := c.hl()
		v := b.Read(m, hl)
		if isCompare {
			a := c.A
			r := a - v
			c.setSZXY(r)
			half := (a ^ v ^ r) & 0x10
			if half != 0 {
				c.F |= FlagH
			} else {
				c.F &^= FlagH
			}
			c.F |= FlagN
			c.WZ += uint16(dir)
		} else {
			b.Write(m, c.de(), v)
		}
		c.setHL(hl + uint16(dir))
		if !isCompare {
			c.setDE(c.de() + uint16(dir))
		}
		bc := c.bc() - 1
		c.setBC(bc)
		if bc != 0 {
			c.F |= FlagPV
		} else {
			c.F &^= FlagPV
		}
		// X/Y from (val [+ A for LD ops]) bit 3 and bit 1.
		var xySrc uint8
		if isCompare {
			a := c.A
			d := a - v
			if c.F&FlagH != 0 {
				d--
			}
			xySrc = d
		} else {
			xySrc = v + c.A
		}
		c.F &^= (FlagX | FlagY)
		if xySrc&0x02 != 0 {
			c.F |= FlagY
		}
		if xySrc&0x08 != 0 {
			c.F |= FlagX
		}
		if repeat && bc != 0 && !(isCompare && (c.F&FlagZ != 0)) {
			c.WZ = c.PC + 1
			c.toExecute(1)
			return
		}
		c.toFetch()
	}
}
