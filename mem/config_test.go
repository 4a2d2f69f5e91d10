package mem

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
backend: guarded
source: chunk
chunk_size: 1MB
max_block_size: 16MB
debug_memset: true
fail_on_leak: true
freed_history: 128
`))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Backend = BackendGuarded
	want.Source = SourceChunk
	want.ChunkSize = datasize.MB
	want.MaxBlockSize = 16 * datasize.MB
	want.DebugMemset = true
	want.FailOnLeak = true
	want.FreedHistory = 128
	require.Equal(t, want, cfg)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown field", "backend: guarded\ncolour: blue\n"},
		{"unknown backend", "backend: tlsf\n"},
		{"unknown source", "source: disk\n"},
		{"negative history", "freed_history: -1\n"},
		{"zero chunk size", "source: chunk\nchunk_size: 0B\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(tt.in))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: guarded\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, BackendGuarded, cfg.Backend)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRegisterFlags(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, fs.Parse([]string{
		"-mem.backend=guarded",
		"-mem.source=chunk",
		"-mem.chunk-size=128KB",
		"-mem.max-block-size=1GB",
		"-mem.freed-history=10",
		"-mem.backtrace",
	}))
	require.Equal(t, BackendGuarded, cfg.Backend)
	require.Equal(t, SourceChunk, cfg.Source)
	require.Equal(t, 128*datasize.KB, cfg.ChunkSize)
	require.Equal(t, datasize.GB, cfg.MaxBlockSize)
	require.Equal(t, 10, cfg.FreedHistory)
	require.True(t, cfg.Backtrace)
	require.NoError(t, cfg.Validate())
}

func TestRegisterFlagsWithPrefix(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlagsWithPrefix("solver.mem.", fs)
	require.NoError(t, fs.Parse([]string{"-solver.mem.debug-memset"}))
	require.True(t, cfg.DebugMemset)
}
