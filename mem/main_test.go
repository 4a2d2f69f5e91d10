package mem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var backends = []string{BackendLockfree, BackendGuarded}

// capture records reported messages.
type capture struct {
	mu   sync.Mutex
	msgs []string
}

func (c *capture) record(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, s)
}

func (c *capture) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

func newTestAllocator(t *testing.T, backend string, mutate ...func(*Config)) (*Allocator, *capture) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Backend = backend
	cfg.LeakDetection = false
	for _, m := range mutate {
		m(&cfg)
	}
	c := &capture{}
	a, err := New(cfg, WithErrorCallback(c.record))
	require.NoError(t, err)
	return a, c
}
