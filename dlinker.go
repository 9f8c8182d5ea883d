// Package dlinker is the public facade over the loader package: a minimal
// dynamic linker for position-independent MIPS shared objects on
// bare-metal targets.
package dlinker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ps1dev/dlinker/loader"
)

// Mode selects how eagerly a module's external references are resolved.
type Mode = loader.Mode

const (
	Lazy = loader.Lazy
	Now  = loader.Now
)

// ErrModuleClosed is returned by any Module method after Close.
var ErrModuleClosed = errors.New("dlinker: module is closed")

// Module wraps a loader.Descriptor with mutex discipline, even though the
// loader package itself assumes a single-threaded cooperative caller — this
// guards against a hosted Go program accidentally calling Close
// concurrently with Sym from two goroutines, which a bare-metal target
// never has to guard against.
type Module struct {
	mu         sync.RWMutex
	descriptor *loader.Descriptor
	closed     bool
}

// Open loads a module from filename.
func Open(filename string, mode Mode) (*Module, error) {
	d, err := loader.Open(filename, mode)
	if err != nil {
		return nil, fmt.Errorf("dlinker: open %s: %w", filename, err)
	}
	return &Module{descriptor: d}, nil
}

// Load loads a module from an in-memory image.
func Load(image []byte, mode Mode) (*Module, error) {
	d, err := loader.Init(image, mode)
	if err != nil {
		return nil, fmt.Errorf("dlinker: init: %w", err)
	}
	return &Module{descriptor: d}, nil
}

// Sym resolves name against the module.
func (m *Module) Sym(name string) (uintptr, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrModuleClosed
	}
	addr := loader.Sym(m.descriptor, name)
	if addr == 0 {
		return 0, fmt.Errorf("dlinker: sym %q: %w", name, loader.ErrSymbolNotInModule)
	}
	return addr, nil
}

// Descriptor returns the underlying loader descriptor for introspection
// (e.g. the CLI's "open --dump"). It returns nil once the module is closed.
func (m *Module) Descriptor() *loader.Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.descriptor
}

// Close releases the module's resources.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	loader.Close(m.descriptor)
	m.descriptor = nil
	return nil
}

// Default is the sentinel descriptor meaning "resolve against the
// process-wide symbol map" (the RTLD_DEFAULT convention), for callers that
// want to route loader.Sym-style lookups through the facade.
var Default = loader.Default

// ParseSymbolMap parses an nm-style text dump and installs it as the
// process-wide symbol map.
func ParseSymbolMap(text []byte) (int, error) {
	n, err := loader.ParseSymbolMap(text)
	if err != nil {
		return 0, fmt.Errorf("dlinker: parse symbol map: %w", err)
	}
	return n, nil
}

// LoadSymbolMap reads filename and parses it as a symbol map.
func LoadSymbolMap(filename string) (int, error) {
	n, err := loader.LoadSymbolMap(filename)
	if err != nil {
		return 0, fmt.Errorf("dlinker: load symbol map %s: %w", filename, err)
	}
	return n, nil
}

// UnloadSymbolMap discards the process-wide symbol map.
func UnloadSymbolMap() { loader.UnloadSymbolMap() }

// GetSymbolByName resolves name against the process-wide symbol map.
func GetSymbolByName(name string) (uintptr, error) {
	addr := loader.GetSymbolByName(name)
	if addr == 0 {
		return 0, fmt.Errorf("dlinker: get symbol %q: %w", name, loader.ErrSymbolNotInMap)
	}
	return addr, nil
}

// SetResolveCallback installs the resolver consulted instead of the symbol
// map while it is set.
func SetResolveCallback(fn loader.ResolveFunc) loader.ResolveFunc {
	return loader.SetResolveCallback(fn)
}

// LastError returns the last error's message, clearing the error channel.
func LastError() *string { return loader.LastError() }
