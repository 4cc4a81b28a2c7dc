// Package corelog is the minimal package-level logging hook used across
// corecade. It mirrors go/mgnes/log.go: a settable Logger, off by
// default, so library packages can report oddities (unmapped bus
// regions, unknown opcodes, DMA edge cases) without forcing every
// caller to wire a logging framework.
package corelog

import "fmt"

// Logger receives formatted trace lines.
type Logger interface {
	Log(msg string)
}

type nopLogger struct{}

func (nopLogger) Log(string) {}

var (
	impl   Logger = nopLogger{}
	enable bool
)

// SetLogger installs impl as the package-wide logger. Passing nil
// restores the no-op default.
func SetLogger(l Logger) {
	if l == nil {
		impl = nopLogger{}
		return
	}
	impl = l
}

// SetEnable turns tracing on or off without touching the installed Logger.
func SetEnable(on bool) { enable = on }

// Logf formats and logs a message if tracing is enabled.
func Logf(format string, args ...interface{}) {
	if !enable {
		return
	}
	impl.Log(fmt.Sprintf(format, args...))
}
