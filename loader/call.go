package loader

// callFunctionPointer invokes the native code at addr with no arguments,
// used by the constructor/destructor runner to call __CTOR_LIST__/
// __DTOR_LIST__ entries. Like the lazy-resolve trampoline, this is
// inherently architecture-specific: on a real MIPS target it is backed by
// assembly (trampoline_mips.s); everywhere else it defaults to a no-op and
// exists purely so SetCallHook can be used to observe calls from tests.
var callFunctionPointer = func(addr uintptr) {
	if callHook != nil {
		callHook(addr)
	}
}

var callHook func(addr uintptr)

// trampolineAddr yields the value Init stores in got[0], the address of the
// lazy-resolve trampoline. Declared untagged (like callFunctionPointer
// above) and overridden in trampoline_mips.go's init() on GOARCH=mips;
// trampoline_other.go installs the hosted placeholder default.
var trampolineAddr func() uintptr

// SetCallHook installs fn to be invoked whenever the loader would otherwise
// jump to a raw function pointer (constructors, destructors). On hosted
// builds without a real MIPS trampoline this is the only way to observe
// those calls; tests use it to record constructor/destructor order.
func SetCallHook(fn func(addr uintptr)) {
	callHook = fn
}
