//go:build !arrowlog_debug

package collection

type debugState struct{}

func (debugState) use(Mode) {}
