package m6800

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

func (c *CPU) add8(a, v uint8, withCarry bool) uint8 {
	carry := uint16(0)
	if withCarry && c.CC&CcC != 0 {
		carry = 1
	}
	r := uint16(a) + uint16(v) + carry
	half := (uint16(a) ^ uint16(v) ^ r) & 0x10
	c.setFlag(CcH, half != 0)
	overflow := (a^v)&0x80 == 0 && (a^uint8(r))&0x80 != 0
	c.setFlag(CcN, uint8(r)&0x80 != 0)
	c.setFlag(CcZ, uint8(r) == 0)
	c.setFlag(CcV, overflow)
	c.setFlag(CcC, r&0x100 != 0)
	return uint8(r)
}

func (c *CPU) sub8(a, v uint8, withCarry bool) uint8 {
	carry := uint16(0)
	if withCarry && c.CC&CcC != 0 {
		carry = 1
	}
	r := uint16(a) - uint16(v) - carry
	overflow := (a^v)&0x80 != 0 && (a^uint8(r))&0x80 != 0
	c.setFlag(CcN, uint8(r)&0x80 != 0)
	c.setFlag(CcZ, uint8(r) == 0)
	c.setFlag(CcV, overflow)
	c.setFlag(CcC, r&0x100 != 0)
	return uint8(r)
}

func (c *CPU) and8(a, v uint8) uint8 { r := a & v; c.setFlagsLogical(r); return r }
func (c *CPU) or8(a, v uint8) uint8  { r := a | v; c.setFlagsLogical(r); return r }
func (c *CPU) eor8(a, v uint8) uint8 { r := a ^ v; c.setFlagsLogical(r); return r }
func (c *CPU) bit8(a, v uint8)       { c.setFlagsLogical(a & v) }

func (c *CPU) cmp8(a, v uint8) {
	r := uint16(a) - uint16(v)
	overflow := (a^v)&0x80 != 0 && (a^uint8(r))&0x80 != 0
	c.setFlag(CcN, uint8(r)&0x80 != 0)
	c.setFlag(CcZ, uint8(r) == 0)
	c.setFlag(CcV, overflow)
	c.setFlag(CcC, r&0x100 != 0)
}

// cpx16 is the documented 6800 quirk: only N/Z/V are set, unlike the
// 6809's CMPX which also sets C.
func (c *CPU) cpx16(a, v uint16) {
	r := uint32(a) - uint32(v)
	overflow := (a^v)&0x8000 != 0 && (a^uint16(r))&0x8000 != 0
	c.setFlag(CcN, uint16(r)&0x8000 != 0)
	c.setFlag(CcZ, uint16(r) == 0)
	c.setFlag(CcV, overflow)
}

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
	c.setFlag(CcV, carry)
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
	c.setFlag(CcV, (r&0x80 != 0) != carry)
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
	c.setFlag(CcV, (r&0x80 != 0) != carry)
	return r
}

func (c *CPU) neg(v uint8) uint8 {
	r := uint16(0) - uint16(v)
	c.setFlag(CcC, v != 0)
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

func (c *CPU) tst(v uint8) {
	c.setFlagsLogical(v)
	c.setFlag(CcC, false)
}

// daa never clears C; it only ever sets it.
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

func (c *CPU) indexedAddr(b bus.Bus, m bus.Master) uint16 {
	off := uint16(fetch8(c, b, m))
	return c.X + off
}
