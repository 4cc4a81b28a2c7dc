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

// Package component holds the two integration points the machine uses to
// drive every clocked part of the system one bus cycle at a time.
package component

import "github.com/master-g/corecade/bus"

// Component is for clocked-only parts with no bus access of their own
// (timers, sound generators). Tick returns a small instruction-boundary
// hint the machine may use for scheduling.
type Component interface {
	Tick() bool
}

// BusMasterComponent is for CPUs: parts that issue bus cycles.
// TickWithBus advances the master by one step and returns true iff it
// has reached an instruction boundary (ExecState Fetch); how many bus
// accesses one step makes is up to each core (see its TickWithBus).
// The DMA engines in dma/ do not implement it; they expose DoDmaCycle.
type BusMasterComponent interface {
	TickWithBus(b bus.Bus, master bus.Master) bool
}
