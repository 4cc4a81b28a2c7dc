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

package machine

// BresenhamAccumulator downsamples or upsamples one cycle-stepped
// stream against another using integer-only Bresenham-style error
// accumulation, avoiding accumulated floating point clock drift.
//
// The machines here use it to downsample the per-cycle audio sample
// stream to the host output rate. Donkey Kong drives its second CPU at
// a different clock ratio with the same arithmetic (add Numerator on
// every driving tick, fire once the accumulator reaches or exceeds
// Denominator), written inline in its Tick rather than through this
// type.
type BresenhamAccumulator struct {
	Numerator   int
	Denominator int
	acc         int
}

// NewBresenhamAccumulator constructs an accumulator for the given ratio.
func NewBresenhamAccumulator(numerator, denominator int) *BresenhamAccumulator {
	return &BresenhamAccumulator{Numerator: numerator, Denominator: denominator}
}

// Step adds Numerator and reports whether the accumulator crossed
// Denominator, subtracting it out if so (so this can be called forever
// without integer overflow so long as Numerator < Denominator).
func (b *BresenhamAccumulator) Step() bool {
	b.acc += b.Numerator
	if b.acc >= b.Denominator {
		b.acc -= b.Denominator
		return true
	}
	return false
}

// Reset clears accumulated error, used by Machine.Reset.
func (b *BresenhamAccumulator) Reset() { b.acc = 0 }
