package m6800

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

func TestLDAAImmediateSetsFlags(t *testing.T) {
	b := &memBus{}
	b.mem[0] = 0x86
	b.mem[1] = 0x00
	c := New()
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.CC&CcZ != 0)
}

func TestAddAAndCarry(t *testing.T) {
	b := &memBus{}
	b.mem[0] = 0x8B // ADDA immediate
	b.mem[1] = 0x01
	c := New()
	c.A = 0xFF
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.CC&CcC != 0)
	assert.True(t, c.CC&CcZ != 0)
}

func TestCpxSetsOnlyNZV(t *testing.T) {
	b := &memBus{}
	b.mem[0] = 0x8C // CPX immediate
	b.mem[1] = 0x00
	b.mem[2] = 0x01
	c := New()
	c.X = 0x0000
	c.CC = CcC
	runUntilBoundary(t, c, b, 5)
	assert.True(t, c.CC&CcC != 0, "CPX must never clear C on the 6800")
	assert.True(t, c.CC&CcN != 0)
}

func TestTsxTxsRoundTrip(t *testing.T) {
	b := &memBus{}
	c := New()
	c.SP = 0x1FFF
	c.X = 0
	tsx := mainOpcodes[0x30]
	tsx(c, b, bus.Cpu(0), 0)
	assert.Equal(t, uint16(0x2000), c.X)
	txs := mainOpcodes[0x35]
	txs(c, b, bus.Cpu(0), 0)
	assert.Equal(t, uint16(0x1FFF), c.SP)
}

func TestIndexedLoad(t *testing.T) {
	b := &memBus{}
	b.mem[0] = 0xA6 // LDAA indexed
	b.mem[1] = 0x02
	b.mem[0x2002] = 0x7F
	c := New()
	c.X = 0x2000
	runUntilBoundary(t, c, b, 5)
	assert.Equal(t, uint8(0x7F), c.A)
}

func TestBranchLoop(t *testing.T) {
	b := &memBus{}
	// DEX ; BNE -3
	b.mem[0] = 0x09
	b.mem[1] = 0x26
	b.mem[2] = 0xFD
	c := New()
	c.X = 3
	c.PC = 0
	for i := 0; i < 6; i++ {
		runUntilBoundary(t, c, b, 5)
		if c.X == 0 {
			break
		}
	}
	assert.Equal(t, uint16(0), c.X)
}
