package loader

import "unsafe"

// Init loads a module from an in-memory image. image must begin with
// .dynamic at offset 0, followed by .dynsym, .hash, .dynstr, .got in that
// order. mode selects whether external references are resolved eagerly
// (Now) or on first call (Lazy).
func Init(image []byte, mode Mode) (*Descriptor, error) {
	if len(image) == 0 {
		return nil, fail(ErrDLLNull, "")
	}

	d := &Descriptor{image: image, size: uint32(len(image))}
	logf("dlinker: initializing module at %#x\n", d.baseAddr())

	info, err := parseDynamic(d)
	if err != nil {
		return nil, err
	}

	d.gotLength = info.localGotLen + (d.symbolCount - info.firstGotSym) - 2

	logf("dlinker: %d symbols, %d GOT entries\n", d.symbolCount, d.gotLength)

	// Install the reserved GOT header words, then relocate every other
	// entry by adding base.
	d.setGot(0, uint32(trampolineAddr()))
	d.setGot(1, uint32(uintptr(unsafe.Pointer(d))))
	for i := uint32(0); i < d.gotLength; i++ {
		d.setGot(2+i, d.got(2+i)+d.baseAddr())
	}

	// Fix up defined symbol values, optionally pre-resolving external
	// references when mode == Now.
	gotOffset := info.firstGotSym
	for i := uint32(0); i < d.symbolCount; i++ {
		value := d.symValue(i)
		if value == 0 {
			continue
		}

		name := d.symNameString(i)
		relocated := value + d.baseAddr()
		d.setSymValue(i, relocated)
		logf("dlinker: module sym %#08x,%#x [%s]\n", relocated, d.symSize(i), name)

		if mode != Now {
			continue
		}

		for j := gotOffset; j < d.gotLength; j++ {
			if d.got(2+j) != relocated {
				continue
			}
			gotOffset = j

			if d.symShndx(i) == 0 && isObjectOrFunc(d.symInfo(i)) {
				addr := resolve(d, name)
				if addr == 0 {
					return nil, fail(ErrMapSymbol, "")
				}
				d.setGot(2+j, uint32(addr))
			}
			break
		}
	}

	enterCritical()
	flushInstructionCache()
	exitCritical()

	runConstructors(d)

	return d, nil
}

func isObjectOrFunc(info byte) bool {
	t := elfSymType(info)
	return t == sttObject || t == sttFunc
}

// Open loads a module from filename via the host file collaborator. The
// buffer loadFile returns is recorded as the descriptor's ownedBuffer so
// Close frees it.
func Open(filename string, mode Mode) (*Descriptor, error) {
	data, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	d, err := Init(data, mode)
	if err != nil {
		return nil, err
	}
	d.ownedBuffer = data
	return d, nil
}

// Close releases a module. A nil or Default descriptor is a no-op.
func Close(d *Descriptor) {
	if d == nil || d == Default || d.isDefault {
		return
	}

	runDestructors(d)

	d.ownedBuffer = nil
	d.image = nil
}
