package proxy

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

// Tracer is notified before a target proxy forwards a call
type Tracer interface {
	Trace(iface, method string)
}

// TracerFunc adapts a function to Tracer
type TracerFunc func(iface, method string)

// Trace calls f(iface, method)
func (f TracerFunc) Trace(iface, method string) {
	f(iface, method)
}

// NopTracer discards every trace
type NopTracer struct{}

// Trace does nothing
func (NopTracer) Trace(string, string) {}

// WriterTracer writes one line per forwarded call
type WriterTracer struct {
	mu     sync.Mutex
	out    io.Writer
	colors bool
}

// NewWriterTracer creates a tracer writing to out. Colors are used when enabled and
// NO_COLOR is unset.
func NewWriterTracer(out io.Writer, colors bool) *WriterTracer {
	return &WriterTracer{out: out, colors: colors && os.Getenv("NO_COLOR") == ""}
}

// Trace writes "----- executing proxy logic: Iface.Method -----"
func (t *WriterTracer) Trace(iface, method string) {
	target := method
	if iface != "" {
		target = iface + "." + method
	}
	line := fmt.Sprintf("----- executing proxy logic: %s -----", target)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.colors {
		c := color.New(color.FgCyan)
		c.EnableColor()
		c.Fprintln(t.out, line)
		return
	}
	fmt.Fprintln(t.out, line)
}

type tracerHolder struct {
	tracer Tracer
}

var defaultTracer atomic.Pointer[tracerHolder]

func init() {
	defaultTracer.Store(&tracerHolder{tracer: NewWriterTracer(os.Stdout, false)})
}

// DefaultTracer returns the tracer used by generated target proxies
func DefaultTracer() Tracer {
	return defaultTracer.Load().tracer
}

// SetDefaultTracer replaces the default tracer and returns a function restoring the
// previous one. A nil tracer installs NopTracer.
func SetDefaultTracer(tracer Tracer) (restore func()) {
	if tracer == nil {
		tracer = NopTracer{}
	}
	prev := defaultTracer.Swap(&tracerHolder{tracer: tracer})
	return func() {
		defaultTracer.Store(prev)
	}
}
