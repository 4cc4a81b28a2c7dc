// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package bus defines the shared memory/IO/interrupt contract every CPU
// core and DMA engine in corecade talks through. A machine implements
// Bus once and performs all of its address decoding inside; CPUs and DMA
// engines never touch memory except via this interface.
package bus

// Kind identifies the category of a bus master.
type Kind uint8

const (
	// KindCPU is a CPU core; Index distinguishes multiple CPUs on one machine.
	KindCPU Kind = iota
	// KindDMA is a DMA engine driving ordinary (banked) memory accesses.
	KindDMA
	// KindDMAVRAM is the Williams blitter's VRAM-direct alias: it bypasses
	// ROM banking overlays so it always sees raw VRAM.
	KindDMAVRAM
)

// Master identifies who is issuing a bus access. Every Bus method takes
// one so address decoding and per-master policy (banking overlays, halt
// queries) can depend on who is asking. Exactly one Master is granted
// the bus at any instant; granting is the machine's responsibility.
type Master struct {
	Kind  Kind
	Index int // CPU index when Kind == KindCPU; 0 otherwise
}

// Cpu returns the Master identity for the CPU at the given index.
func Cpu(index int) Master { return Master{Kind: KindCPU, Index: index} }

// Dma is the Master identity used by DMA engines for ordinary, banked
// memory accesses.
var Dma = Master{Kind: KindDMA}

// DmaVram is the Master identity the Williams blitter uses when reading
// or writing the destination side of a blit: decoding logic must route
// this straight to VRAM, ignoring any ROM banking overlay.
var DmaVram = Master{Kind: KindDMAVRAM}

// InterruptState is a point-in-time snapshot of pending interrupt pin
// levels, valid only for the CPU dispatch check that requested it.
type InterruptState struct {
	NMI       bool  // edge-sensitive, latched per-CPU by the machine
	IRQ       bool  // level-sensitive, masked by the CPU's own I flag
	FIRQ      bool  // 6809-only fast interrupt request
	IRQVector byte  // byte placed on the data bus for Z80 IM 2
}

// Bus is the trait every machine implements once. Address and data
// widths are the typical 16-bit address / 8-bit data instantiation used
// by every CPU this core supports.
type Bus interface {
	Read(master Master, addr uint16) uint8
	Write(master Master, addr uint16, data uint8)

	// IORead and IOWrite serve CPUs with a distinct I/O address space
	// (Z80 ports, MCS-48 pin-mapped ports). Memory-mapped CPUs may route
	// these identically to Read/Write.
	IORead(master Master, addr uint16) uint8
	IOWrite(master Master, addr uint16, data uint8)

	// IsHaltedFor reports whether master is currently NOT granted the
	// bus. A master observing true must not issue a bus cycle this tick.
	IsHaltedFor(master Master) bool

	// CheckInterrupts is idempotent and must only be called at a
	// master's instruction boundary (CPU Fetch state).
	CheckInterrupts(master Master) InterruptState
}
