package eventloop

import (
	"runtime/debug"

	"github.com/habitflash/habitflash/pkg/logger"
)

// Go runs fn in a new goroutine with panic recovery. It is used for
// fire-and-forget calls into OS services that must never stall the loop.
func Go(l logger.Logger, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil && l != nil {
				l.Error("PANIC [%s]: %v\n%s", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}
