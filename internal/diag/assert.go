package diag

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// AssertionError is the panic value raised by a failed assertion.
type AssertionError struct {
	Msg   string
	File  string
	Line  int
	Stack string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s (%s:%d)", e.Msg, filepath.Base(e.File), e.Line)
}

// Assert panics with an *AssertionError when cond is false and assertions
// are enabled.
func Assert(cond bool, format string, args ...any) {
	if !Enabled || cond {
		return
	}
	fail(fmt.Sprintf(format, args...))
}

// Unreachable marks code that must never run.
func Unreachable() {
	if Enabled {
		fail("unreachable code reached")
	}
}

func fail(msg string) {
	_, file, line, _ := runtime.Caller(2)
	panic(&AssertionError{Msg: msg, File: file, Line: line, Stack: Backtrace(2)})
}
