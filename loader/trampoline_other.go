//go:build !mips

package loader

// On every GOARCH other than mips there is no real MIPS trampoline to point
// at, so trampolineAddr (declared in call.go) is installed here to return a
// fixed placeholder value instead: tests assert got[0] equals whatever
// trampolineAddr() returns, not that it is executable, and production
// bare-metal builds are compiled with GOARCH=mips (see trampoline_mips.go).
func init() {
	trampolineAddr = func() uintptr { return hostedTrampolinePlaceholder }
}

// hostedTrampolinePlaceholder is an arbitrary, recognisable non-zero value;
// its only contract is that it is distinct from any real GOT stub address
// a synthetic test image would use for an external reference.
const hostedTrampolinePlaceholder = 0xdeadc0de
