package z80

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBus is a flat 64K RAM bus with no interrupts, enough to drive the
// core through individual instructions one TickWithBus call at a time.
type memBus struct {
	mem [65536]uint8

	ioReadValue uint8
	ioReadAddr  uint16
	ioReadHit   bool
	ioWriteAddr uint16
	ioWriteData uint8
	ioWriteHit  bool
}

func (m *memBus) Read(master bus.Master, addr uint16) uint8  { return m.mem[addr] }
func (m *memBus) Write(master bus.Master, addr uint16, data uint8) { m.mem[addr] = data }
func (m *memBus) IORead(master bus.Master, addr uint16) uint8 {
	m.ioReadHit = true
	m.ioReadAddr = addr
	return m.ioReadValue
}
func (m *memBus) IOWrite(master bus.Master, addr uint16, data uint8) {
	m.ioWriteHit = true
	m.ioWriteAddr = addr
	m.ioWriteData = data
}
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

func TestLDAnAddAB(t *testing.T) {
	// LD A,0x10 ; LD B,0x20 ; ADD A,B
	b := &memBus{}
	rom := []uint8{0x3E, 0x10, 0x06, 0x20, 0x80}
	copy(b.mem[:], rom)

	c := New()
	c.Reset()

	runUntilBoundary(t, c, b, 10)
	require.Equal(t, uint8(0x10), c.A)

	runUntilBoundary(t, c, b, 10)
	require.Equal(t, uint8(0x20), c.B)

	runUntilBoundary(t, c, b, 10)
	assert.Equal(t, uint8(0x30), c.A)
	assert.False(t, c.F&FlagC != 0)
	assert.False(t, c.F&FlagZ != 0)
}

func TestAddCarryAndOverflow(t *testing.T) {
	b := &memBus{}
	c := New()
	c.Reset()
	c.A = 0x7F
	c.B = 0x01
	c.add8(c.B, false)
	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.F&FlagPV != 0, "signed overflow should set P/V")
	assert.True(t, c.F&FlagS != 0)
	assert.False(t, c.F&FlagC != 0)
	_ = b
}

func TestCpDoesNotModifyA(t *testing.T) {
	c := New()
	c.Reset()
	c.A = 0x10
	c.cp8(0x10)
	assert.Equal(t, uint8(0x10), c.A)
	assert.True(t, c.F&FlagZ != 0)
}

func TestScfCcfQQuirk(t *testing.T) {
	c := New()
	c.Reset()
	// Fresh reset: q and prevQ both zero, so SCF pulls X/Y from A|F.
	c.A = 0x00
	c.scfCcf(true)
	assert.True(t, c.F&FlagC != 0)
}

func TestIndexedLDIXnn(t *testing.T) {
	b := &memBus{}
	// DD 21 34 12 : LD IX,0x1234
	rom := []uint8{0xDD, 0x21, 0x34, 0x12}
	copy(b.mem[:], rom)
	c := New()
	c.Reset()
	runUntilBoundary(t, c, b, 10)
	assert.Equal(t, uint16(0x1234), c.IX)
}

func TestIndexedLDIXPlusD(t *testing.T) {
	b := &memBus{}
	// DD 36 02 99 : LD (IX+2),0x99
	rom := []uint8{0xDD, 0x36, 0x02, 0x99}
	copy(b.mem[:], rom)
	c := New()
	c.Reset()
	c.IX = 0x2000
	runUntilBoundary(t, c, b, 10)
	assert.Equal(t, uint8(0x99), b.mem[0x2002])
}

func TestDJNZLoop(t *testing.T) {
	b := &memBus{}
	// LD B,2 ; loop: DJNZ loop (offset -2, i.e. 0xFE) ; HALT
	rom := []uint8{0x06, 0x02, 0x10, 0xFE, 0x76}
	copy(b.mem[:], rom)
	c := New()
	c.Reset()
	runUntilBoundary(t, c, b, 10) // LD B,2

	runUntilBoundary(t, c, b, 10) // DJNZ: B=1, branch taken
	assert.Equal(t, uint8(1), c.B)
	assert.Equal(t, uint16(2), c.PC)

	runUntilBoundary(t, c, b, 10) // DJNZ: B=0, fall through
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint16(4), c.PC)
}

func TestOutNAThenInANDriveIO(t *testing.T) {
	b := &memBus{ioReadValue: 0x55}
	// LD A,0x42 ; OUT (0x00),A ; IN A,(0x00) ; LD B,A
	rom := []uint8{0x3E, 0x42, 0xD3, 0x00, 0xDB, 0x00, 0x47}
	copy(b.mem[:], rom)
	c := New()
	c.Reset()

	runUntilBoundary(t, c, b, 10) // LD A,0x42
	require.Equal(t, uint8(0x42), c.A)

	runUntilBoundary(t, c, b, 10) // OUT (0x00),A
	require.True(t, b.ioWriteHit)
	assert.Equal(t, uint16(0x4200), b.ioWriteAddr)
	assert.Equal(t, uint8(0x42), b.ioWriteData)
	assert.Equal(t, uint16(4), c.PC, "OUT is a 2-byte instruction, the port operand must not be redispatched as an opcode")

	runUntilBoundary(t, c, b, 10) // IN A,(0x00)
	require.True(t, b.ioReadHit)
	assert.Equal(t, uint16(0x4200), b.ioReadAddr)
	assert.Equal(t, uint8(0x55), c.A)

	runUntilBoundary(t, c, b, 10) // LD B,A
	assert.Equal(t, uint8(0x55), c.B)
}

func TestBlockLDIR(t *testing.T) {
	b := &memBus{}
	b.mem[0] = 0xED
	b.mem[1] = 0xB0 // LDIR
	b.mem[0x1000] = 0xAA
	b.mem[0x1001] = 0xBB
	c := New()
	c.Reset()
	c.setHL(0x1000)
	c.setDE(0x2000)
	c.setBC(2)
	runUntilBoundary(t, c, b, 20)
	assert.Equal(t, uint8(0xAA), b.mem[0x2000])
	assert.Equal(t, uint8(0xBB), b.mem[0x2001])
	assert.Equal(t, uint16(0), c.bc())
}
