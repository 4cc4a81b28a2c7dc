package i8035

import "github.com/master-g/corecade/bus"

// add sets CY/AC and returns A+v(+carry).
func (c *CPU) add(v uint8, withCarry bool) uint8 {
	carry := uint8(0)
	if withCarry && c.flagSet(PswCY) {
		carry = 1
	}
	r := uint16(c.A) + uint16(v) + uint16(carry)
	half := (c.A&0x0F)+(v&0x0F)+carry > 0x0F
	c.setFlag(PswCY, r > 0xFF)
	c.setFlag(PswAC, half)
	return uint8(r)
}

// daa applies the 8048 decimal-adjust rule after an ADD/ADDC.
func (c *CPU) daa() {
	a := c.A
	if a&0x0F > 9 || c.flagSet(PswAC) {
		a += 0x06
		if uint16(c.A)+0x06 > 0xFF {
			c.setFlag(PswCY, true)
		}
	}
	if a&0xF0 > 0x90 || c.flagSet(PswCY) {
		if uint16(a)+0x60 > 0xFF {
			c.setFlag(PswCY, true)
		}
		a += 0x60
	}
	c.A = a
}

func fetch8(c *CPU, b bus.Bus, m bus.Master) uint8 {
	v := b.Read(m, c.PC)
	c.PC = (c.PC + 1) & 0x0FFF
	return v
}
