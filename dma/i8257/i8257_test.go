package i8257

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
)

type memBus struct {
	mem [65536]uint8
}

func (m *memBus) Read(master bus.Master, addr uint16) uint8        { return m.mem[addr] }
func (m *memBus) Write(master bus.Master, addr uint16, data uint8) { m.mem[addr] = data }
func (m *memBus) IORead(master bus.Master, addr uint16) uint8      { return 0 }
func (m *memBus) IOWrite(master bus.Master, addr uint16, data uint8) {}
func (m *memBus) IsHaltedFor(master bus.Master) bool { return false }
func (m *memBus) CheckInterrupts(master bus.Master) bus.InterruptState {
	return bus.InterruptState{}
}

func writeReg16(c *Controller, base uint8, v uint16) {
	c.Write(base, uint8(v))
	c.Write(base, uint8(v>>8))
}

func TestReadTransferCopiesFromMemory(t *testing.T) {
	b := &memBus{}
	b.mem[0x1000] = 0xAA
	c := New()
	writeReg16(c, 0, 0x1000)               // Ch0 address
	writeReg16(c, 1, XferRead<<14|0x0000)  // Ch0 count: 1 byte, Read mode
	c.Write(8, 0x01)                       // enable Ch0, fixed priority
	c.SetDREQ(0, true)

	xfer, ok := c.DoDmaCycle(b, 0)
	assert.True(t, ok)
	assert.Equal(t, uint8(0xAA), xfer.Data)
	assert.Equal(t, DirRead, xfer.Direction)
	assert.True(t, xfer.TC)
	assert.Equal(t, uint16(0x1001), c.ChannelAddress(0))
}

func TestWriteTransferGoesToMemory(t *testing.T) {
	b := &memBus{}
	c := New()
	writeReg16(c, 4, 0x2000)              // Ch2 address
	writeReg16(c, 5, XferWrite<<14|0x0001) // Ch2 count: 2 bytes, Write mode
	c.Write(8, 0x04) // enable Ch2
	c.SetDREQ(2, true)

	xfer, ok := c.DoDmaCycle(b, 0x55)
	assert.True(t, ok)
	assert.False(t, xfer.TC)
	assert.Equal(t, uint8(0x55), b.mem[0x2000])

	xfer2, ok := c.DoDmaCycle(b, 0x66)
	assert.True(t, ok)
	assert.True(t, xfer2.TC)
	assert.Equal(t, uint8(0x66), b.mem[0x2001])
}

func TestAutoLoadReloadsChannel2FromChannel3(t *testing.T) {
	b := &memBus{}
	c := New()
	writeReg16(c, 4, 0x3000)              // Ch2 address
	writeReg16(c, 5, XferVerify<<14|0x0000) // Ch2 count: 1 transfer, Verify
	writeReg16(c, 6, 0x4000)              // Ch3 address (base for reload)
	writeReg16(c, 7, XferVerify<<14|0x0007) // Ch3 count (latched as base)
	c.Write(8, ModeChannelEnableMask|ModeAutoLoad)
	c.SetDREQ(2, true)

	xfer, ok := c.DoDmaCycle(b, 0)
	assert.True(t, ok)
	assert.True(t, xfer.TC)
	assert.True(t, c.updateFlag)
	assert.Equal(t, uint16(0x4000), c.ChannelAddress(2))
	assert.Equal(t, XferVerify<<14|uint16(0x0007), c.ChannelCount(2))
}

func TestHRQReflectsEnabledDREQOnly(t *testing.T) {
	c := New()
	c.SetDREQ(1, true)
	assert.False(t, c.HRQ(), "channel 1 is not enabled yet")
	c.Write(8, 1<<1)
	assert.True(t, c.HRQ())
}
