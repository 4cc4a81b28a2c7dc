package pacman

// namcoSound is a simplified three-voice wavetable generator modeled on
// the Namco WSG custom chip: each voice has a 20-bit frequency
// accumulator, a waveform select, and a volume, with waveforms sourced
// from the 256-byte sound PROM (8 waveforms of 32 4-bit samples each).
// This reduces the chip to per-cycle accumulation rather than
// reproducing its exact silicon.
type namcoSound struct {
	waveformRom [256]uint8
	regs        [32]uint8
	phase       [3]uint32
	lastSample  int16
}

// writeRegister stores the low nibble of data at one of the 32
// registers backing the WSG's nibble-wide register bus.
func (s *namcoSound) writeRegister(offset, data uint8) {
	s.regs[offset&0x1F] = data & 0x0F
}

// Register layout (invented, not silicon-exact): waveform selects at
// 0-2, volumes at 3-5, 5 nibbles of frequency per voice at 6-20.
func (s *namcoSound) waveform(voice int) uint8 { return s.regs[voice] & 0x07 }
func (s *namcoSound) volume(voice int) uint8   { return s.regs[3+voice] }
func (s *namcoSound) frequency(voice int) uint32 {
	base := 6 + voice*5
	var f uint32
	for i := 0; i < 5; i++ {
		f |= uint32(s.regs[base+i]) << uint(4*i)
	}
	return f
}

// tick advances each voice's phase accumulator by one CPU cycle and
// mixes the resulting waveform samples into lastSample.
func (s *namcoSound) tick() {
	var mix int32
	for v := 0; v < 3; v++ {
		vol := s.volume(v)
		if vol == 0 {
			continue
		}
		s.phase[v] += s.frequency(v)
		sampleIdx := (s.phase[v] >> 15) & 0x1F
		addr := int(s.waveform(v))*32 + int(sampleIdx)
		nibble := s.waveformRom[addr] & 0x0F
		mix += (int32(nibble) - 8) * int32(vol)
	}
	s.lastSample = int16(mix * 64)
}

func (s *namcoSound) sample() int16 { return s.lastSample }
