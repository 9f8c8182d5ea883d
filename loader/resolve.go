package loader

// ResolveSymbol resolves the external reference named by index: given a
// module descriptor and a .dynsym index, it resolves the symbol's address
// and patches the first GOT slot that still holds the unresolved stub
// value. On a real MIPS target this is called from the assembly trampoline
// installed in got[0] (trampoline_mips.s); in hosted code (tests, or a
// resolveCallback-less RTLD_DEFAULT dlsym) it can be invoked directly to
// simulate "the module called through its stub".
func ResolveSymbol(d *Descriptor, index uint32) uintptr {
	name := d.symNameString(index)
	stub := uintptr(d.symValue(index))

	addr := resolve(d, name)
	if addr == 0 {
		logf("dlinker: FATAL cannot resolve %s, locking up\n", name)
		haltUnresolvable(d, name)
		return 0
	}

	patchGOTSlot(d, stub, addr)
	return addr
}

// patchGOTSlot scans got[2 .. 2+gotLength) for the slot still equal to
// stub (the pre-resolution st_value) and overwrites it with addr. It stops
// at the first match: subsequent lazy calls for the same symbol
// short-circuit because the slot already holds the resolved address and
// the trampoline is never re-entered for it.
func patchGOTSlot(d *Descriptor, stub, addr uintptr) {
	for i := uint32(0); i < d.gotLength; i++ {
		if uintptr(d.got(2+i)) == stub {
			d.setGot(2+i, uint32(addr))
			return
		}
	}
}

// haltUnresolvable is the "log and halt" behavior for an external reference
// that cannot be resolved: there is no host process to fail back to on a
// bare-metal target. Hosted builds cannot spin forever without wedging the
// test process, so this is a hook instead of a literal infinite loop; the
// default panics, which is the closest hosted analogue of "halt".
var haltUnresolvable = func(d *Descriptor, name string) {
	panic("dlinker: unresolvable symbol " + name)
}
