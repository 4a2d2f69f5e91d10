package mem

import (
	"flag"
	"io"
	"os"
	"slices"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendLockfree = "lockfree"
	BackendGuarded  = "guarded"
)

// Source names.
const (
	SourceHeap  = "heap"
	SourceChunk = "chunk"
	SourceMmap  = "mmap"
)

// Config configures an Allocator.
type Config struct {
	Backend       string            `yaml:"backend"`
	Source        string            `yaml:"source"`
	ChunkSize     datasize.ByteSize `yaml:"chunk_size"`
	MaxBlockSize  datasize.ByteSize `yaml:"max_block_size"`
	DebugMemset   bool              `yaml:"debug_memset"`
	LeakDetection bool              `yaml:"leak_detection"`
	FailOnLeak    bool              `yaml:"fail_on_leak"`
	AbortOnError  bool              `yaml:"abort_on_error"`
	Backtrace     bool              `yaml:"backtrace"`
	FreedHistory  int               `yaml:"freed_history"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendLockfree,
		Source:        SourceHeap,
		ChunkSize:     datasize.ByteSize(DefaultChunkSize),
		LeakDetection: true,
		FreedHistory:  DefaultFreedHistory,
	}
}

// RegisterFlags registers flags with the "mem." prefix.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("mem.", f)
}

// RegisterFlagsWithPrefix registers flags, prefixing every name with prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	d := DefaultConfig()
	f.StringVar(&cfg.Backend, prefix+"backend", d.Backend, "Allocation backend: lockfree or guarded.")
	f.StringVar(&cfg.Source, prefix+"source", d.Source, "Storage of raw blocks: heap, chunk or mmap.")

	cfg.ChunkSize = d.ChunkSize
	f.Func(prefix+"chunk-size", "Chunk size of the chunk source (default 64KB).", func(s string) error {
		return cfg.ChunkSize.UnmarshalText([]byte(s))
	})
	cfg.MaxBlockSize = d.MaxBlockSize
	f.Func(prefix+"max-block-size", "Largest single block; 0 disables the limit.", func(s string) error {
		return cfg.MaxBlockSize.UnmarshalText([]byte(s))
	})

	f.BoolVar(&cfg.DebugMemset, prefix+"debug-memset", d.DebugMemset, "Fill fresh and freed raw payloads with 0xFF.")
	f.BoolVar(&cfg.LeakDetection, prefix+"leak-detection", d.LeakDetection, "Report unfreed blocks on Close.")
	f.BoolVar(&cfg.FailOnLeak, prefix+"fail-on-leak", d.FailOnLeak, "Panic when the leak detector finds unfreed blocks.")
	f.BoolVar(&cfg.AbortOnError, prefix+"abort-on-error", d.AbortOnError, "Panic on every reported memory error.")
	f.BoolVar(&cfg.Backtrace, prefix+"backtrace", d.Backtrace, "Attach a stack trace to memory error reports.")
	f.IntVar(&cfg.FreedHistory, prefix+"freed-history", d.FreedHistory, "Freed addresses the guarded backend remembers for double-free reports.")
}

// Validate checks the configuration.
func (cfg *Config) Validate() error {
	if !slices.Contains([]string{BackendLockfree, BackendGuarded}, cfg.Backend) {
		return errors.Wrapf(ErrInvalidConfig, "unknown backend %q", cfg.Backend)
	}
	if !slices.Contains([]string{SourceHeap, SourceChunk, SourceMmap}, cfg.Source) {
		return errors.Wrapf(ErrInvalidConfig, "unknown source %q", cfg.Source)
	}
	if cfg.Source == SourceChunk && cfg.ChunkSize == 0 {
		return errors.Wrap(ErrInvalidConfig, "chunk_size must be positive")
	}
	if cfg.FreedHistory < 0 {
		return errors.Wrapf(ErrInvalidConfig, "negative freed_history %d", cfg.FreedHistory)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig. Unknown fields are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode mem config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open mem config")
	}
	defer f.Close()
	return ParseConfig(f)
}

func (cfg *Config) newSource() (Source, error) {
	switch cfg.Source {
	case SourceChunk:
		return NewChunkSource(int(cfg.ChunkSize.Bytes())), nil
	case SourceMmap:
		return NewMmapSource()
	default:
		return HeapSource{}, nil
	}
}
