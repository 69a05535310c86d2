//go:build arrowlog_debug

package collection

import "sync/atomic"

// debugState enforces single use of borrowed collections in debug builds.
type debugState struct {
	uses atomic.Int32
}

func (d *debugState) use(m Mode) {
	if m == Borrowed && d.uses.Add(1) > 1 {
		panic("collection: borrowed collection consumed more than once")
	}
}
