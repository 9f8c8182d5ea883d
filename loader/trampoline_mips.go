//go:build mips

package loader

// dlResolveTrampolineAddr returns the address of the assembly trampoline
// in trampoline_mips.s, for installation into got[0] by Init.
//
//go:noescape
func dlResolveTrampolineAddr() uintptr

// goResolveSymbol is called from the assembly trampoline with the module
// descriptor and .dynsym index recovered from the PIC calling convention
// (see trampoline_mips.s). It is a thin wrapper over ResolveSymbol, kept
// separate so the exported Go API (ResolveSymbol) stays callable directly
// from hosted code and tests too.
func goResolveSymbol(d *Descriptor, index uint32) uintptr {
	return ResolveSymbol(d, index)
}

func init() {
	trampolineAddr = dlResolveTrampolineAddr
	callFunctionPointer = asmCallFunctionPointer
}

// asmCallFunctionPointer jumps to addr with no arguments; used by the
// constructor/destructor runner. It reuses the trampoline's tail-call
// convention without the resolve step.
//
//go:noescape
func asmCallFunctionPointer(addr uintptr)
