package i8035

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
)

type memBus struct {
	mem [4096]uint8
	io  map[uint16]uint8
}

func newMemBus() *memBus { return &memBus{io: map[uint16]uint8{}} }

func (m *memBus) Read(master bus.Master, addr uint16) uint8        { return m.mem[addr&0x0FFF] }
func (m *memBus) Write(master bus.Master, addr uint16, data uint8) { m.mem[addr&0x0FFF] = data }
func (m *memBus) IORead(master bus.Master, addr uint16) uint8      { return m.io[addr] }
func (m *memBus) IOWrite(master bus.Master, addr uint16, data uint8) {
	m.io[addr] = data
}
func (m *memBus) IsHaltedFor(master bus.Master) bool { return false }
func (m *memBus) CheckInterrupts(master bus.Master) bus.InterruptState {
	return bus.InterruptState{}
}

func runUntilBoundary(t *testing.T, c *CPU, b bus.Bus, maxCycles int) {
	t.Helper()
	for i := 0; i < maxCycles; i++ {
		if c.TickWithBus(b, bus.Cpu(1)) {
			return
		}
	}
	t.Fatalf("instruction did not reach a boundary within %d cycles", maxCycles)
}

func TestMovAImmediate(t *testing.T) {
	b := newMemBus()
	b.mem[0] = 0x23
	b.mem[1] = 0x42
	c := New()
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0x42), c.A)
}

func TestAddSetsCarry(t *testing.T) {
	b := newMemBus()
	b.mem[0] = 0x03 // ADD A,#data
	b.mem[1] = 0x01
	c := New()
	c.A = 0xFF
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.flagSet(PswCY))
}

func TestOutlP1RoutesThroughIOWrite(t *testing.T) {
	b := newMemBus()
	b.mem[0] = 0x39 // OUTL P1,A
	c := New()
	c.A = 0x5A
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0x5A), c.P1)
	assert.Equal(t, uint8(0x5A), b.io[PortP1])
}

func TestCallAndRet(t *testing.T) {
	b := newMemBus()
	b.mem[0] = 0x14 // CALL addr11 (page 0)
	b.mem[1] = 0x10
	b.mem[0x10] = 0x83 // RET
	c := New()
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint16(0x10), c.PC)
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint16(2), c.PC)
}

func TestDjnzLoop(t *testing.T) {
	b := newMemBus()
	// MOV R0,#3 ; DJNZ R0,2 (loops on itself until R0 hits 0)
	b.mem[0] = 0xB8
	b.mem[1] = 0x03
	b.mem[2] = 0xE8
	b.mem[3] = 0x02
	c := New()
	runUntilBoundary(t, c, b, 5) // MOV R0,#3
	for i := 0; i < 4; i++ {
		runUntilBoundary(t, c, b, 5)
		if c.getReg(0) == 0 {
			break
		}
	}
	assert.Equal(t, uint8(0), c.getReg(0))
}
