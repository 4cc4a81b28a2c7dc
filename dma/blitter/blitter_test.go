package blitter

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
)

type memBus struct {
	vram [65536]uint8
}

func (m *memBus) Read(master bus.Master, addr uint16) uint8 { return m.vram[addr] }
func (m *memBus) Write(master bus.Master, addr uint16, data uint8) {
	m.vram[addr] = data
}
func (m *memBus) IORead(master bus.Master, addr uint16) uint8      { return 0 }
func (m *memBus) IOWrite(master bus.Master, addr uint16, data uint8) {}
func (m *memBus) IsHaltedFor(master bus.Master) bool { return false }
func (m *memBus) CheckInterrupts(master bus.Master) bus.InterruptState {
	return bus.InterruptState{}
}

func runBlit(b *memBus, bl *Blitter, maxCycles int) int {
	n := 0
	for i := 0; i < maxCycles && bl.IsActive(); i++ {
		if _, ok := bl.DoDmaCycle(b); ok {
			n++
		}
	}
	return n
}

func TestSimpleCopyOneByOne(t *testing.T) {
	b := &memBus{}
	b.vram[0x1000] = 0xAB
	bl := SC2()
	bl.WriteRegister(2, 0x10) // src hi
	bl.WriteRegister(3, 0x00) // src lo
	bl.WriteRegister(4, 0x20) // dst hi
	bl.WriteRegister(5, 0x00) // dst lo
	bl.WriteRegister(6, 1)    // width
	bl.WriteRegister(7, 1)    // height
	bl.WriteRegister(0, 0)    // control: fast, normal, triggers blit

	runBlit(b, bl, 16)
	assert.False(t, bl.IsActive())
	assert.Equal(t, uint8(0xAB), b.vram[0x2000])
}

func TestSolidFillClearsDestination(t *testing.T) {
	b := &memBus{}
	b.vram[0x3000] = 0xFF
	bl := SC2()
	bl.WriteRegister(1, 0x00) // solid color: all zero nibbles
	bl.WriteRegister(4, 0x30)
	bl.WriteRegister(5, 0x00)
	bl.WriteRegister(6, 4)
	bl.WriteRegister(7, 1)
	bl.WriteRegister(0, CtrlSolid)

	runBlit(b, bl, 32)
	assert.False(t, bl.IsActive())
	for i := uint16(0); i < 4; i++ {
		assert.Equal(t, uint8(0), b.vram[0x3000+i])
	}
}

func TestForegroundOnlySkipsTransparentPixels(t *testing.T) {
	b := &memBus{}
	b.vram[0x1000] = 0x00 // source: both nibbles color 0 (transparent)
	b.vram[0x2000] = 0x7E // pre-existing destination content
	bl := SC2()
	bl.WriteRegister(2, 0x10)
	bl.WriteRegister(3, 0x00)
	bl.WriteRegister(4, 0x20)
	bl.WriteRegister(5, 0x00)
	bl.WriteRegister(6, 1)
	bl.WriteRegister(7, 1)
	bl.WriteRegister(0, CtrlForegroundOnly)

	runBlit(b, bl, 16)
	assert.Equal(t, uint8(0x7E), b.vram[0x2000], "transparent source must not overwrite destination")
}

func TestSC1Xor4BugOnWidthHeight(t *testing.T) {
	b := &memBus{}
	for i := uint16(0); i < 8; i++ {
		b.vram[0x1000+i] = uint8(i + 1)
	}
	bl := SC1()
	bl.WriteRegister(2, 0x10)
	bl.WriteRegister(3, 0x00)
	bl.WriteRegister(4, 0x20)
	bl.WriteRegister(5, 0x00)
	bl.WriteRegister(6, 4^4) // pre-XORed by the ROM so effective width is 4
	bl.WriteRegister(7, 1^4)
	bl.WriteRegister(0, 0)

	n := runBlit(b, bl, 16)
	assert.Equal(t, 4, n)
	assert.False(t, bl.IsActive())
	for i := uint16(0); i < 4; i++ {
		assert.Equal(t, uint8(i+1), b.vram[0x2000+i])
	}
}

func TestZeroWidthClampsToOne(t *testing.T) {
	b := &memBus{}
	b.vram[0x1000] = 0x11
	bl := SC2()
	bl.WriteRegister(2, 0x10)
	bl.WriteRegister(3, 0x00)
	bl.WriteRegister(4, 0x20)
	bl.WriteRegister(5, 0x00)
	bl.WriteRegister(6, 0)
	bl.WriteRegister(7, 0)
	bl.WriteRegister(0, 0)

	n := runBlit(b, bl, 8)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint8(0x11), b.vram[0x2000])
}

func TestSlowModeConsumesTwoCyclesPerByte(t *testing.T) {
	b := &memBus{}
	bl := SC2()
	bl.WriteRegister(4, 0x20)
	bl.WriteRegister(5, 0x00)
	bl.WriteRegister(6, 1)
	bl.WriteRegister(7, 1)
	bl.WriteRegister(0, CtrlSlow)

	cycles, ok := bl.DoDmaCycle(b)
	assert.True(t, ok)
	assert.Equal(t, uint8(2), cycles)
	assert.False(t, bl.IsActive())
}
