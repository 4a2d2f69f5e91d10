//go:build fedebug

package diag

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssertFatal(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*AssertionError)
		require.True(t, ok, "panic value %T", r)
		require.Equal(t, "index 7 out of range", err.Msg)
		require.Equal(t, "assert_debug_test.go", filepath.Base(err.File))
		require.Contains(t, err.Error(), "assertion failed")
	}()
	Assert(false, "index %d out of range", 7)
	t.Fatal("Assert did not panic")
}
