package dkong

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
)

func TestResetStartsAtZero(t *testing.T) {
	d := New()
	d.Reset()
	assert.Equal(t, uint16(0), d.cpu.PC)
}

func TestWorkRamReadWriteRoundTrip(t *testing.T) {
	d := New()
	d.Write(bus.Cpu(0), 0x6100, 0x55)
	assert.Equal(t, uint8(0x55), d.Read(bus.Cpu(0), 0x6100))
}

func TestSpriteRamReadWriteRoundTrip(t *testing.T) {
	d := New()
	d.Write(bus.Cpu(0), 0x7050, 0xAB)
	assert.Equal(t, uint8(0xAB), d.Read(bus.Cpu(0), 0x7050))
}

func TestVblankNmiGatedByNmiMask(t *testing.T) {
	d := New()
	d.vblankNMI = true
	d.nmiMask = false
	assert.False(t, d.CheckInterrupts(bus.Cpu(0)).NMI)

	d.nmiMask = true
	assert.True(t, d.CheckInterrupts(bus.Cpu(0)).NMI)
}

func TestNmiMaskClearAlsoClearsPending(t *testing.T) {
	d := New()
	d.vblankNMI = true
	d.Write(bus.Cpu(0), 0x7D84, 0x01) // nmi_mask = true, no change to pending
	assert.True(t, d.vblankNMI)

	d.Write(bus.Cpu(0), 0x7D84, 0x00) // nmi_mask = false clears pending too
	assert.False(t, d.nmiMask)
	assert.False(t, d.vblankNMI)
}

func TestSoundCpuIrqFromLatch(t *testing.T) {
	d := New()
	assert.False(t, d.CheckInterrupts(bus.Cpu(1)).IRQ)
	d.Write(bus.Cpu(0), 0x7D80, 0x01)
	assert.True(t, d.CheckInterrupts(bus.Cpu(1)).IRQ)
}

func TestActiveHighInputSetsAndClearsBit(t *testing.T) {
	d := New()
	assert.Equal(t, uint8(0x00), d.in0)
	d.SetInput(InputP1Up, true)
	assert.Equal(t, uint8(0x04), d.in0)
	d.SetInput(InputP1Up, false)
	assert.Equal(t, uint8(0x00), d.in0)
}

func TestCoinSetsIn2Bit7(t *testing.T) {
	d := New()
	d.SetInput(InputCoin, true)
	assert.Equal(t, uint8(0x80), d.in2)
}

func TestSoundControlLatchForwardsLowThreeBitsToDiscrete(t *testing.T) {
	d := New()
	d.Write(bus.Cpu(0), 0x7D00, 0x01)
	assert.True(t, d.soundCtrl.Get(0))
	assert.True(t, d.discrete.active[0])

	d.Write(bus.Cpu(0), 0x7D04, 0x01) // bit 4, not forwarded to discrete
	assert.True(t, d.soundCtrl.Get(4))
}

func TestSpriteBankSelectsUpperHalf(t *testing.T) {
	d := New()
	assert.False(t, d.spriteBank)
	d.Write(bus.Cpu(0), 0x7D83, 0x01)
	assert.True(t, d.spriteBank)
}

func TestSpriteDmaTriggerCopiesFromRom(t *testing.T) {
	d := New()
	d.rom[0x1000] = 0x11
	d.rom[0x1001] = 0x22
	d.dma.Write(0, 0x00) // channel 0 address, low byte
	d.dma.Write(0, 0x10) // channel 0 address, high byte -> 0x1000
	d.dma.Write(1, 0x01) // channel 0 count, low byte -> count = 1+1 = 2
	d.dma.Write(1, 0x00) // channel 0 count, high byte

	d.triggerSpriteDma()
	assert.Equal(t, uint8(0x11), d.spriteRAM[0])
	assert.Equal(t, uint8(0x22), d.spriteRAM[1])
}

func TestToneRomBankSelectByP2LowBits(t *testing.T) {
	d := New()
	d.tuneROM[0x100] = 0x99
	d.soundCPU.P2 = 0x01 // bank 1, command mode off (bit6 clear)
	assert.Equal(t, uint8(0x99), d.IORead(bus.Cpu(1), 0x0000))
}

func TestSoundLatchReadWhenP2Bit6Set(t *testing.T) {
	d := New()
	d.soundLatch = 0x0A
	d.soundCPU.P2 = 0x40
	assert.Equal(t, (uint8(0x0A)&0x0F)^0x0F, d.IORead(bus.Cpu(1), 0x0000))
}

func TestRunFrameAdvancesClockByOneFrame(t *testing.T) {
	d := New()
	d.RunFrame()
	assert.Equal(t, uint64(cyclesPerFrame), d.clock)
}

func TestDisplaySizeIsRotatedAndClipped(t *testing.T) {
	d := New()
	w, h := d.DisplaySize()
	assert.Equal(t, screenWidth, w)
	assert.Equal(t, screenHeight, h)
}
