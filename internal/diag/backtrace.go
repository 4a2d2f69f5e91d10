package diag

import (
	"fmt"
	"runtime"
	"strings"
)

const maxFrames = 32

// Backtrace formats the stack of the calling goroutine, skipping skip
// frames above the caller.
func Backtrace(skip int) string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "  %s\n    %s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
