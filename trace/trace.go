// Package trace formats CPU and device state for diagnostics, the same
// job hejops-gone/cpu/debugger.go does by hand for its 6502 core. Here
// it is factored out and generalized across all five CPU cores so any
// of them can be dumped the same way, using go-spew instead of a
// bespoke per-field Sprintf.
package trace

import (
	"github.com/davecgh/go-spew/spew"
)

// config uses a two-space indent, sorts map keys, and disables pointer
// addresses and capacities, which are meaningless noise in
// register-state dumps and would make two otherwise-identical snapshots
// compare unequal in tests.
var config = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders any register file / device state struct as a multi-line
// string suitable for a debugger panel or a failing-test diff.
func Dump(label string, v interface{}) string {
	return label + ":\n" + config.Sdump(v)
}

// OneLine renders a compact single-line form, used by the bubbletea
// debugger's per-frame status bar.
func OneLine(v interface{}) string {
	return config.Sprintf("%#v", v)
}
