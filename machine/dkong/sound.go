package dkong

// dkongDac is a minimal stand-in for the MC1408 8-bit multiplying DAC
// the sound CPU drives via OUTL P1,A: each write becomes a centered
// 16-bit sample. Real hardware low-pass filters this output in analog
// before mixing with the discrete channel; that analog shaping is not
// modeled here, so the digital value is used directly.
type dkongDac struct {
	last uint8
}

func (d *dkongDac) write(data uint8) { d.last = data }

func (d *dkongDac) sample() int16 {
	return int16((int32(d.last) - 128) * 200)
}

// dkongDiscrete stands in for the TTL discrete sound board's three
// hard-wired effects (walk, jump, stomp), each toggled by one bit of
// the 7D00-7D07 74LS259 latch. It is not grounded in any retrieved
// source, since the discrete board's analog oscillator/filter networks
// have no cycle-accurate digital model in the pack; this reduces each
// effect to a fixed-amplitude tone contribution while its latch bit is
// set, which is enough to exercise the sound-control wiring without
// claiming audio fidelity.
type dkongDiscrete struct {
	active [3]bool
	phase  [3]uint32
}

func (d *dkongDiscrete) writeLatch(bit int, on bool) {
	if bit >= 0 && bit < len(d.active) {
		d.active[bit] = on
	}
}

var discreteFreq = [3]uint32{400, 900, 250}

func (d *dkongDiscrete) sample() int16 {
	var mix int32
	for i, on := range d.active {
		if !on {
			continue
		}
		d.phase[i] += discreteFreq[i]
		if d.phase[i]&0x8000 != 0 {
			mix += 1500
		} else {
			mix -= 1500
		}
	}
	return int16(mix)
}
