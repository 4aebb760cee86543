package wire

import "github.com/kestrelwl/wl/internal/debug"

func debugPrintf(str string, args ...any) {
	debug.Printf(str, args...)
}
