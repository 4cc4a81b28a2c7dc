// Package romimage describes the shape a ROM loader must produce for
// this core to consume — concatenating named chip images at fixed
// offsets into one flat region. Loading files, verifying CRC32s, and
// everything else a loader does live outside this module; this package
// only owns the shape of the handoff.
package romimage

import "fmt"

// Chip describes one ROM chip's placement within a region.
type Chip struct {
	Name   string
	Size   int
	Offset int
	// CRC32 lists acceptable checksums for this chip slot (several
	// dumps of the same mask ROM sometimes differ in trailing padding);
	// verifying against these is the loader's job, not this package's.
	CRC32 []uint32
}

// Region is the declarative shape of one ROM region (e.g. "cpu" or
// "gfx1") as a machine's definition states it.
type Region struct {
	TotalSize int
	Chips     []Chip
}

// Assemble concatenates chipData (keyed by Chip.Name) at their declared
// offsets into one contiguous image of length TotalSize. Gaps not
// covered by any chip are left zero.
func Assemble(region Region, chipData map[string][]byte) ([]byte, error) {
	img := make([]byte, region.TotalSize)
	for _, c := range region.Chips {
		data, ok := chipData[c.Name]
		if !ok {
			return nil, fmt.Errorf("romimage: missing chip %q", c.Name)
		}
		if len(data) != c.Size {
			return nil, fmt.Errorf("romimage: chip %q size mismatch: got %d want %d", c.Name, len(data), c.Size)
		}
		if c.Offset+c.Size > region.TotalSize {
			return nil, fmt.Errorf("romimage: chip %q overruns region (offset %d size %d total %d)", c.Name, c.Offset, c.Size, region.TotalSize)
		}
		copy(img[c.Offset:c.Offset+c.Size], data)
	}
	return img, nil
}
