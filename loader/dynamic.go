package loader

// Elf32_Dyn tags this loader understands. Values match the MIPS ABI
// supplement and the generic ELF gABI; unrecognised tags are ignored.
const (
	dtNull            = 0
	dtPLTGOT          = 3
	dtHash            = 4
	dtStrtab          = 5
	dtSymtab          = 6
	dtStrsz           = 10
	dtSyment          = 11
	dtMipsRldVersion  = 0x70000001
	dtMipsFlags       = 0x70000005
	dtMipsBaseAddress = 0x70000006
	dtMipsLocalGotno  = 0x7000000a
	dtMipsSymtabno    = 0x70000011
	dtMipsUnrefExtno  = 0x70000012
	dtMipsGotsym      = 0x70000013
	dtMipsHipageno    = 0x70000014
)

const rhfQuickstart = 0x00000001

// dynamicInfo carries the values read out of .dynamic that Init needs but
// that don't belong on the long-lived Descriptor (they're only used to
// derive gotLength once, at load time).
type dynamicInfo struct {
	localGotLen  uint32
	firstGotSym  uint32
	haveSymtabno bool
	haveSyment   bool
}

// parseDynamic walks the .dynamic key/value stream at the start of the
// image, populating the section offsets on d and returning the transient
// values needed to compute got_length.
func parseDynamic(d *Descriptor) (dynamicInfo, error) {
	var info dynamicInfo

	for offset := uint32(0); ; offset += 8 {
		if offset+8 > uint32(len(d.image)) {
			return info, fail(ErrDLLFormat, "truncated .dynamic section")
		}
		tag := d.u32(offset)
		val := d.u32(offset + 4)
		if tag == dtNull {
			break
		}

		switch tag {
		case dtPLTGOT:
			logf("dlinker: .dynamic PLTGOT=%#x\n", val)
			d.gotOffset = val
		case dtHash:
			logf("dlinker: .dynamic HASH=%#x\n", val)
			d.hashOffset = val
		case dtStrtab:
			logf("dlinker: .dynamic STRTAB=%#x\n", val)
			d.strtabOffset = val
		case dtSymtab:
			logf("dlinker: .dynamic SYMTAB=%#x\n", val)
			d.symtabOffset = val
		case dtStrsz:
			logf("dlinker: .dynamic STRSZ=%#x\n", val)
			d.strSize = val
		case dtSyment:
			logf("dlinker: .dynamic SYMENT=%#x\n", val)
			if val != elf32SymSize {
				return info, fail(ErrDLLFormat, "unsupported SYMENT size")
			}
			info.haveSyment = true
		case dtMipsRldVersion:
			logf("dlinker: .dynamic MIPS_RLD_VERSION=%#x\n", val)
			if val != 1 {
				return info, fail(ErrDLLFormat, "unsupported MIPS_RLD_VERSION")
			}
		case dtMipsFlags:
			logf("dlinker: .dynamic MIPS_FLAGS=%#x\n", val)
			if val&rhfQuickstart != 0 {
				return info, fail(ErrDLLFormat, "RHF_QUICKSTART is not supported")
			}
		case dtMipsLocalGotno:
			logf("dlinker: .dynamic MIPS_LOCAL_GOTNO=%#x\n", val)
			info.localGotLen = val
		case dtMipsBaseAddress:
			logf("dlinker: .dynamic MIPS_BASE_ADDRESS=%#x\n", val)
			if val != 0 {
				return info, fail(ErrDLLFormat, "unsupported MIPS_BASE_ADDRESS")
			}
		case dtMipsSymtabno:
			logf("dlinker: .dynamic MIPS_SYMTABNO=%#x\n", val)
			d.symbolCount = val
			info.haveSymtabno = true
		case dtMipsGotsym:
			logf("dlinker: .dynamic MIPS_GOTSYM=%#x\n", val)
			info.firstGotSym = val
		case dtMipsUnrefExtno:
			logf("dlinker: .dynamic MIPS_UNREFEXTNO=%#x\n", val)
			d.unrefExtNo = val
		case dtMipsHipageno:
			logf("dlinker: .dynamic MIPS_HIPAGENO=%#x\n", val)
			d.hiPageNo = val
		default:
			logf("dlinker: .dynamic tag %#x ignored\n", tag)
		}
	}

	if !info.haveSymtabno {
		// Derive symbol_count from section adjacency when the producer
		// omitted MIPS_SYMTABNO, instead of failing outright.
		if d.hashOffset <= d.symtabOffset {
			return info, fail(ErrDLLFormat, "cannot derive symbol_count: .hash precedes .dynsym")
		}
		d.symbolCount = (d.hashOffset - d.symtabOffset) / elf32SymSize
	}

	return info, nil
}
