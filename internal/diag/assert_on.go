//go:build fedebug

package diag

// Enabled reports whether assertions are checked.
const Enabled = true
