package m6809

import "github.com/master-g/corecade/bus"

func (c *CPU) setFlagsLogical(v uint8) {
	c.setFlag(CcN, v&0x80 != 0)
	c.setFlag(CcZ, v == 0)
	c.setFlag(CcV, false)
}

func (c *CPU) setFlagsLogical16(v uint16) {
	c.setFlag(CcN, v&0x8000 != 0)
	c.setFlag(CcZ, v == 0)
	c.setFlag(CcV, false)
}

func (c *CPU) setFlagsArith(result uint8, overflow, carry bool) {
	c.setFlag(CcN, result&0x80 != 0)
	c.setFlag(CcZ, result == 0)
	c.setFlag(CcV, overflow)
	c.setFlag(CcC, carry)
}

func (c *CPU) setFlagsArith16(result uint16, overflow, carry bool) {
	c.setFlag(CcN, result&0x8000 != 0)
	c.setFlag(CcZ, result == 0)
	c.setFlag(CcV, overflow)
	c.setFlag(CcC, carry)
}

// add8 returns A+v(+carry) and sets N/Z/V/C/H.
func (c *CPU) add8(a, v uint8, withCarry bool) uint8 {
	carry := uint16(0)
	if withCarry && c.CC&CcC != 0 {
		carry = 1
	}
	r := uint16(a) + uint16(v) + carry
	half := (uint16(a) ^ uint16(v) ^ r) & 0x10
	c.setFlag(CcH, half != 0)
	overflow := (a^v)&0x80 == 0 && (a^uint8(r))&0x80 != 0
	c.setFlagsArith(uint8(r), overflow, r&0x100 != 0)
	return uint8(r)
}

func (c *CPU) sub8(a, v uint8, withCarry bool) uint8 {
	carry := uint16(0)
	if withCarry && c.CC&CcC != 0 {
		carry = 1
	}
	r := uint16(a) - uint16(v) - carry
	overflow := (a^v)&0x80 != 0 && (a^uint8(r))&0x80 != 0
	c.setFlagsArith(uint8(r), overflow, r&0x100 != 0)
	return uint8(r)
}

func (c *CPU) and8(a, v uint8) uint8 {
	r := a & v
	c.setFlagsLogical(r)
	return r
}

func (c *CPU) or8(a, v uint8) uint8 {
	r := a | v
	c.setFlagsLogical(r)
	return r
}

func (c *CPU) eor8(a, v uint8) uint8 {
	r := a ^ v
	c.setFlagsLogical(r)
	return r
}

func (c *CPU) bit8(a, v uint8) { c.setFlagsLogical(a & v) }

func (c *CPU) cmp8(a, v uint8) {
	r := uint16(a) - uint16(v)
	overflow := (a^v)&0x80 != 0 && (a^uint8(r))&0x80 != 0
	c.setFlagsArith(uint8(r), overflow, r&0x100 != 0)
}

func (c *CPU) add16(a, v uint16) uint16 {
	r := uint32(a) + uint32(v)
	overflow := (a^v)&0x8000 == 0 && (a^uint16(r))&0x8000 != 0
	c.setFlagsArith16(uint16(r), overflow, r&0x10000 != 0)
	return uint16(r)
}

func (c *CPU) sub16(a, v uint16) uint16 {
	r := uint32(a) - uint32(v)
	overflow := (a^v)&0x8000 != 0 && (a^uint16(r))&0x8000 != 0
	c.setFlagsArith16(uint16(r), overflow, r&0x10000 != 0)
	return uint16(r)
}

func (c *CPU) cmp16(a, v uint16) {
	r := uint32(a) - uint32(v)
	overflow := (a^v)&0x8000 != 0 && (a^uint16(r))&0x8000 != 0
	c.setFlagsArith16(uint16(r), overflow, r&0x10000 != 0)
}

// Shift/rotate: V = N xor C for left shifts; right shifts leave V
// untouched.
func (c *CPU) asl(v uint8) uint8 {
	carry := v&0x80 != 0
	r := v << 1
	c.setFlag(CcC, carry)
	c.setFlag(CcN, r&0x80 != 0)
	c.setFlag(CcZ, r == 0)
	c.setFlag(CcV, (r&0x80 != 0) != carry)
	return r
}

func (c *CPU) lsr(v uint8) uint8 {
	carry := v&1 != 0
	r := v >> 1
	c.setFlag(CcC, carry)
	c.setFlag(CcN, false)
	c.setFlag(CcZ, r == 0)
	return r
}

func (c *CPU) ror(v uint8) uint8 {
	cIn := uint8(0)
	if c.CC&CcC != 0 {
		cIn = 0x80
	}
	carry := v&1 != 0
	r := v>>1 | cIn
	c.setFlag(CcC, carry)
	c.setFlag(CcN, r&0x80 != 0)
	c.setFlag(CcZ, r == 0)
	return r
}

func (c *CPU) rol(v uint8) uint8 {
	cIn := uint8(0)
	if c.CC&CcC != 0 {
		cIn = 1
	}
	carry := v&0x80 != 0
	r := v<<1 | cIn
	c.setFlag(CcC, carry)
	c.setFlag(CcN, r&0x80 != 0)
	c.setFlag(CcZ, r == 0)
	c.setFlag(CcV, (r&0x80 != 0) != carry)
	return r
}

func (c *CPU) asr(v uint8) uint8 {
	carry := v&1 != 0
	r := v&0x80 | v>>1
	c.setFlag(CcC, carry)
	c.setFlag(CcN, r&0x80 != 0)
	c.setFlag(CcZ, r == 0)
	return r
}

func (c *CPU) neg(v uint8) uint8 {
	r := uint16(0) - uint16(v)
	c.setFlag(CcC, r&0x100 != 0 && v != 0)
	c.setFlag(CcV, v == 0x80)
	c.setFlag(CcN, uint8(r)&0x80 != 0)
	c.setFlag(CcZ, uint8(r) == 0)
	return uint8(r)
}

func (c *CPU) com(v uint8) uint8 {
	r := ^v
	c.setFlagsLogical(r)
	c.setFlag(CcC, true)
	return r
}

func (c *CPU) inc(v uint8) uint8 {
	r := v + 1
	c.setFlag(CcV, v == 0x7F)
	c.setFlag(CcN, r&0x80 != 0)
	c.setFlag(CcZ, r == 0)
	return r
}

func (c *CPU) dec(v uint8) uint8 {
	r := v - 1
	c.setFlag(CcV, v == 0x80)
	c.setFlag(CcN, r&0x80 != 0)
	c.setFlag(CcZ, r == 0)
	return r
}

func (c *CPU) tst(v uint8) { c.setFlagsLogical(v) }

// indexedRegValue/setIndexedReg map the 2-bit register selector used
// in an indexed postbyte: 0=X 1=Y 2=U 3=S.
func (c *CPU) indexedRegValue(sel uint8) uint16 {
	switch sel & 3 {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.U
	}
	return c.S
}

func (c *CPU) setIndexedReg(sel uint8, v uint16) {
	switch sel & 3 {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	case 2:
		c.U = v
	default:
		c.S = v
	}
}

func signExtend5(v uint8) uint16 {
	if v&0x10 != 0 {
		return uint16(v) | 0xFFE0
	}
	return uint16(v)
}

// indexedResolve decodes a 6809 indexed-addressing postbyte into
// c.tempAddr, consuming between 1 and 5 bus cycles depending on the
// sub-mode. It returns true once tempAddr holds the final effective
// address; sentinel cycle numbers 1, 2, 10 and 11 mark the extra
// fetch/indirection steps, mirroring the real decoder's incremental
// postbyte consumption.
func (c *CPU) indexedResolve(b bus.Bus, m bus.Master, cycle int) bool {
	switch cycle {
	case 0:
		pb := b.Read(m, c.PC)
		c.PC++
		c.postbyte = pb
		if pb&0x80 == 0 {
			reg := c.indexedRegValue((pb >> 5) & 3)
			c.tempAddr = reg + signExtend5(pb&0x1F)
			return true
		}
		sel := (pb >> 5) & 3
		indirect := pb&0x10 != 0
		mode := pb & 0x0F
		reg := c.indexedRegValue(sel)
		switch mode {
		case 0x00:
			if indirect {
				break
			}
			c.tempAddr = reg
			c.setIndexedReg(sel, reg+1)
			return true
		case 0x01:
			c.tempAddr = reg
			c.setIndexedReg(sel, reg+2)
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x02:
			if indirect {
				break
			}
			nv := reg - 1
			c.setIndexedReg(sel, nv)
			c.tempAddr = nv
			return true
		case 0x03:
			nv := reg - 2
			c.setIndexedReg(sel, nv)
			c.tempAddr = nv
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x04:
			c.tempAddr = reg
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x05:
			c.tempAddr = reg + uint16(int16(int8(c.B)))
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x06:
			c.tempAddr = reg + uint16(int16(int8(c.A)))
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x0B:
			c.tempAddr = reg + c.d()
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x08, 0x0C:
			c.toExecute(1)
			return false
		case 0x09, 0x0D:
			c.toExecute(1)
			return false
		case 0x0F:
			if indirect {
				c.toExecute(1)
				return false
			}
		}
		c.toFetch()
		return false
	case 1:
		mode := c.postbyte & 0x0F
		indirect := c.postbyte&0x10 != 0
		sel := (c.postbyte >> 5) & 3
		switch mode {
		case 0x08:
			off := int8(b.Read(m, c.PC))
			c.PC++
			reg := c.indexedRegValue(sel)
			c.tempAddr = reg + uint16(int16(off))
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x0C:
			off := int8(b.Read(m, c.PC))
			c.PC++
			c.tempAddr = c.PC + uint16(int16(off))
			if indirect {
				c.toExecute(10)
				return false
			}
			return true
		case 0x09, 0x0D, 0x0F:
			hi := uint16(b.Read(m, c.PC))
			c.PC++
			c.tempLo = hi << 8
			c.toExecute(2)
			return false
		}
		c.toFetch()
		return false
	case 2:
		mode := c.postbyte & 0x0F
		indirect := c.postbyte&0x10 != 0
		sel := (c.postbyte >> 5) & 3
		lo := uint16(b.Read(m, c.PC))
		c.PC++
		off16 := c.tempLo | lo
		switch mode {
		case 0x09:
			c.tempAddr = c.indexedRegValue(sel) + off16
		case 0x0D:
			c.tempAddr = c.PC + off16
		case 0x0F:
			c.tempAddr = off16
			c.toExecute(10)
			return false
		}
		if indirect {
			c.toExecute(10)
			return false
		}
		return true
	case 10:
		hi := b.Read(m, c.tempAddr)
		c.tempAddr++
		c.postbyte = hi
		c.toExecute(11)
		return false
	case 11:
		lo := uint16(b.Read(m, c.tempAddr))
		c.tempAddr = uint16(c.postbyte)<<8 | lo
		return true
	}
	return false
}
