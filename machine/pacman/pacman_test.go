package pacman

import (
	"testing"

	"github.com/master-g/corecade/bus"
	"github.com/stretchr/testify/assert"
)

func TestResetStartsAtZero(t *testing.T) {
	p := New()
	p.Reset()
	assert.Equal(t, uint16(0), p.cpu.PC)
}

func TestVideoRamReadWriteRoundTrip(t *testing.T) {
	p := New()
	p.Write(bus.Cpu(0), 0x4010, 0x42)
	assert.Equal(t, uint8(0x42), p.Read(bus.Cpu(0), 0x4010))
}

func TestBusFloatRegionReturnsBF(t *testing.T) {
	p := New()
	assert.Equal(t, uint8(0xBF), p.Read(bus.Cpu(0), 0x4900))
}

func TestA15MirrorsLowerHalf(t *testing.T) {
	p := New()
	p.rom[0] = 0x77
	assert.Equal(t, uint8(0x77), p.Read(bus.Cpu(0), 0x8000))
}

func TestIrqEnableLatchGatesVblankIrq(t *testing.T) {
	p := New()
	p.vblankIRQ = true
	assert.False(t, p.CheckInterrupts(bus.Cpu(0)).IRQ, "irq must stay masked until latch bit 0 is set")

	p.Write(bus.Cpu(0), 0x5000, 0x01) // latch bit 0 = irq-enable
	assert.True(t, p.CheckInterrupts(bus.Cpu(0)).IRQ)

	p.Write(bus.Cpu(0), 0x5000, 0x00) // clearing irq-enable also clears the pending flag
	assert.False(t, p.vblankIRQ)
}

func TestActiveLowInputSetsAndClearsBit(t *testing.T) {
	p := New()
	assert.Equal(t, uint8(0xFF), p.in0)
	p.SetInput(InputP1Up, true)
	assert.Equal(t, uint8(0xFE), p.in0)
	p.SetInput(InputP1Up, false)
	assert.Equal(t, uint8(0xFF), p.in0)
}

func TestRunFrameAdvancesClockByOneFrame(t *testing.T) {
	p := New()
	p.RunFrame()
	assert.Equal(t, uint64(cyclesPerFrame), p.clock)
}

func TestDisplaySizeIsRotated(t *testing.T) {
	p := New()
	w, h := p.DisplaySize()
	assert.Equal(t, screenWidth, w)
	assert.Equal(t, screenHeight, h)
}
