package loader

// ctorListSymbol and dtorListSymbol name the two well-known arrays a
// cooperating linker script emits at the end of a module: __CTOR_LIST__[0]
// is a count, followed by that many function pointers (called in reverse);
// __DTOR_LIST__ is the same shape, called forward. Neither is required to
// be present.
const (
	ctorListSymbol = "__CTOR_LIST__"
	dtorListSymbol = "__DTOR_LIST__"
)

// runConstructors calls d's __CTOR_LIST__ in reverse: the constructor
// registered last by the toolchain runs first.
func runConstructors(d *Descriptor) {
	addr, ok := symLookup(d, ctorListSymbol)
	if !ok {
		return
	}

	offset := d.addrToOffset(addr)
	count := d.u32(offset)
	for i := count; i >= 1; i-- {
		callFunctionPointer(uintptr(d.u32(offset + 4*i)))
	}
}

// runDestructors calls d's __DTOR_LIST__ forward.
func runDestructors(d *Descriptor) {
	addr, ok := symLookup(d, dtorListSymbol)
	if !ok {
		return
	}

	offset := d.addrToOffset(addr)
	count := d.u32(offset)
	for i := uint32(1); i <= count; i++ {
		callFunctionPointer(uintptr(d.u32(offset + 4*i)))
	}
}

// addrToOffset converts an already-relocated absolute address (base + x)
// back into a byte offset within d.image.
func (d *Descriptor) addrToOffset(addr uintptr) uint32 {
	return uint32(addr) - d.baseAddr()
}
