package m6809

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
)

type memBus struct {
	mem [65536]uint8
}

func (m *memBus) Read(master bus.Master, addr uint16) uint8       { return m.mem[addr] }
func (m *memBus) Write(master bus.Master, addr uint16, data uint8) { m.mem[addr] = data }
func (m *memBus) IORead(master bus.Master, addr uint16) uint8      { return 0xFF }
func (m *memBus) IOWrite(master bus.Master, addr uint16, data uint8) {}
func (m *memBus) IsHaltedFor(master bus.Master) bool { return false }
func (m *memBus) CheckInterrupts(master bus.Master) bus.InterruptState {
	return bus.InterruptState{}
}

func runUntilBoundary(t *testing.T, c *CPU, b bus.Bus, maxCycles int) {
	t.Helper()
	for i := 0; i < maxCycles; i++ {
		if c.TickWithBus(b, bus.Cpu(0)) {
			return
		}
	}
	t.Fatalf("instruction did not reach a boundary within %d cycles", maxCycles)
}

func TestBHINotTaken(t *testing.T) {
	b := &memBus{}
	b.mem[0x1000] = 0x22 // BHI
	b.mem[0x1001] = 0x10 // +16
	c := New()
	c.PC = 0x1000
	c.CC = CcC
	runUntilBoundary(t, c, b, 10)
	assert.Equal(t, uint16(0x1002), c.PC)
	assert.Equal(t, uint8(CcC), c.CC)
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	b := &memBus{}
	b.mem[0] = 0x86
	b.mem[1] = 0x00
	c := New()
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.CC&CcZ != 0)
}

func TestIndexedPostIncrement(t *testing.T) {
	b := &memBus{}
	// LDA ,X+ : A6 80
	b.mem[0] = 0xA6
	b.mem[1] = 0x80
	b.mem[0x2000] = 0x42
	c := New()
	c.X = 0x2000
	runUntilBoundary(t, c, b, 10)
	assert.Equal(t, uint8(0x42), c.A)
	assert.Equal(t, uint16(0x2001), c.X)
}

func TestPshsPuls(t *testing.T) {
	b := &memBus{}
	c := New()
	c.S = 0x4000
	c.A = 0x11
	c.B = 0x22
	c.pushMasked(b, bus.Cpu(0), 0x06, false) // A,B
	assert.Equal(t, uint16(0x3FFE), c.S)
	c.A, c.B = 0, 0
	c.pullMasked(b, bus.Cpu(0), 0x06, false)
	assert.Equal(t, uint8(0x11), c.A)
	assert.Equal(t, uint8(0x22), c.B)
	assert.Equal(t, uint16(0x4000), c.S)
}
