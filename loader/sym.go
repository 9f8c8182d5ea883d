package loader

// Sym resolves name against d. If d is the Default sentinel, resolution
// delegates to the process-wide symbol map. Otherwise d's own .hash chain
// is walked, matched by name equality (not hash equality: a module carries
// its own string table, unlike the symbol map which trades name comparison
// for hash-only matching).
func Sym(d *Descriptor, name string) uintptr {
	if d == nil || d == Default || d.isDefault {
		return GetSymbolByName(name)
	}

	addr, ok := symLookup(d, name)
	if !ok {
		_ = fail(ErrDLLSymbol, "")
		return 0
	}
	logf("dlinker: module lookup [%s = %#x]\n", name, addr)
	return addr
}

// symLookup walks d's own .hash chain for name, without touching the
// process-wide error channel on a miss. runConstructors/runDestructors use
// this to probe for __CTOR_LIST__/__DTOR_LIST__, which are optional and
// absent on most modules: routing that probe through Sym would leave a
// spurious "symbol not found" in LastError after an otherwise clean load.
func symLookup(d *Descriptor, name string) (uintptr, bool) {
	nbucket := d.hashNBucket()
	b := pjw(name) % nbucket
	for i := d.hashBucket(b); i != 0; i = d.hashChain(i) {
		if d.symNameString(i) == name {
			return uintptr(d.symValue(i)), true
		}
	}
	return 0, false
}
