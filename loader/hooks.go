package loader

import "log"

// ResolveFunc resolves an external symbol name against some host-provided
// source of addresses (usually the symbol map, but a caller may register
// its own). A zero return means "not found".
type ResolveFunc func(d *Descriptor, name string) uintptr

// resolveCallback is a single process-wide function pointer, consulted by
// the lazy resolver and by NOW-mode eager resolution in preference to the
// symbol map.
var resolveCallback ResolveFunc

// SetResolveCallback installs fn as the resolver consulted instead of the
// symbol map while it is set (a zero answer from fn is final; the map is not
// tried), returning whatever callback was previously installed.
func SetResolveCallback(fn ResolveFunc) ResolveFunc {
	previous := resolveCallback
	resolveCallback = fn
	return previous
}

func resolve(d *Descriptor, name string) uintptr {
	if resolveCallback != nil {
		return resolveCallback(d, name)
	}
	return GetSymbolByName(name)
}

// Platform hooks. On a bare-metal MIPS target Init calls them once the GOT
// has been fixed up: the instruction-cache flush runs inside an
// enter/exit critical section. Hosted builds (tests, the CLI) default to no-ops; a real
// bare-metal integration overrides them via SetHooks before calling
// Init/Open.
var (
	enterCritical         func() = func() {}
	exitCritical          func() = func() {}
	flushInstructionCache func() = func() {}
)

// Hooks bundles the three abstract collaborators the loader requires from
// the host environment.
type Hooks struct {
	EnterCritical         func()
	ExitCritical          func()
	FlushInstructionCache func()
}

// SetHooks installs the platform collaborators. Any nil field keeps its
// current (default no-op) behavior.
func SetHooks(h Hooks) {
	if h.EnterCritical != nil {
		enterCritical = h.EnterCritical
	}
	if h.ExitCritical != nil {
		exitCritical = h.ExitCritical
	}
	if h.FlushInstructionCache != nil {
		flushInstructionCache = h.FlushInstructionCache
	}
}

// debugLogger is the ambient logging facility; it defaults to discarding
// output and is enabled on demand via SetLogger.
var debugLogger = log.New(discardWriter{}, "", 0)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// SetLogger installs l as the destination for debug tracing. Pass nil to
// silence tracing again.
func SetLogger(l *log.Logger) {
	if l == nil {
		debugLogger = log.New(discardWriter{}, "", 0)
		return
	}
	debugLogger = l
}

func logf(format string, args ...any) {
	debugLogger.Printf(format, args...)
}
