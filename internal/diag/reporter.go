package diag

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Reporter delivers diagnostics. It is safe for concurrent use.
type Reporter struct {
	mu        sync.Mutex
	logger    log.Logger
	callback  func(string)
	abort     bool
	backtrace bool
	hook      func(reason string)
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger used when no callback is installed.
func WithLogger(l log.Logger) Option {
	return func(r *Reporter) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCallback installs fn as the error sink.
func WithCallback(fn func(string)) Option {
	return func(r *Reporter) { r.callback = fn }
}

// WithAbort makes every block error panic after it was delivered.
func WithAbort(abort bool) Option {
	return func(r *Reporter) { r.abort = abort }
}

// WithBacktrace appends the calling goroutine's stack to block errors.
func WithBacktrace(enabled bool) Option {
	return func(r *Reporter) { r.backtrace = enabled }
}

// WithReportHook registers fn to be called with the reason of each block error.
func WithReportHook(fn func(reason string)) Option {
	return func(r *Reporter) { r.hook = fn }
}

// DefaultLogger returns a logfmt logger writing to stderr.
func DefaultLogger() log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	return log.With(l, "ts", log.DefaultTimestampUTC)
}

// NewReporter returns a Reporter logging to DefaultLogger unless configured otherwise.
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{logger: DefaultLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetCallback replaces the error sink. A nil fn restores logging.
func (r *Reporter) SetCallback(fn func(string)) {
	r.mu.Lock()
	r.callback = fn
	r.mu.Unlock()
}

// Logger returns the logger used when no callback is installed.
func (r *Reporter) Logger() log.Logger { return r.logger }

// BlockError reports misuse of the block owned by tag. reason is a short
// machine readable label ("double_free", "corrupt_header", ...).
func (r *Reporter) BlockError(reason, tag, msg string) {
	text := fmt.Sprintf("MemoryBlock %s: %s", tag, msg)
	var stack string
	if r.backtrace {
		stack = Backtrace(1)
	}
	r.deliver(level.ErrorValue(), text, stack, "reason", reason, "block", tag)
	if r.hook != nil {
		r.hook(reason)
	}
	if r.abort {
		panic(text)
	}
}

// Errorf reports a message that is not bound to a single block.
func (r *Reporter) Errorf(format string, args ...any) {
	r.deliver(level.ErrorValue(), fmt.Sprintf(format, args...), "")
}

// Warn reports msg with structured key/value context.
func (r *Reporter) Warn(msg string, keyvals ...any) {
	r.deliver(level.WarnValue(), msg, "", keyvals...)
}

func (r *Reporter) deliver(lvl level.Value, msg, stack string, keyvals ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.callback != nil {
		var sb strings.Builder
		sb.WriteString(msg)
		for i := 0; i+1 < len(keyvals); i += 2 {
			if k, _ := keyvals[i].(string); k == "reason" || k == "block" {
				continue
			}
			fmt.Fprintf(&sb, " %v=%v", keyvals[i], keyvals[i+1])
		}
		if stack != "" {
			sb.WriteString("\n")
			sb.WriteString(stack)
		}
		r.callback(sb.String())
		return
	}

	kv := append([]any{level.Key(), lvl, "msg", msg}, keyvals...)
	if stack != "" {
		kv = append(kv, "stack", stack)
	}
	_ = r.logger.Log(kv...)
}
