package loader

import (
	"encoding/binary"
	"unsafe"
)

// Mode selects how eagerly external references are resolved by Init/Open.
type Mode int

const (
	// Lazy defers resolution of each external reference until it is first
	// called through its GOT slot.
	Lazy Mode = iota
	// Now resolves every external reference eagerly, during Init.
	Now
)

// Descriptor is the runtime record for one loaded module. All fields are
// resolved by the time Init/Open returns; nothing about a Descriptor
// changes afterwards except GOT slots patched by lazy resolution.
//
// Descriptor is the sole owner of the backing image buffer. got[1] points
// back to the Descriptor from inside the image, but that is a non-owning
// back-reference: Close frees ownedBuffer (if any) and the Descriptor
// itself, never anything reachable only through the image.
type Descriptor struct {
	image       []byte // the full image, base = image[0]
	ownedBuffer []byte // non-nil only if Open allocated this buffer
	size        uint32

	gotOffset    uint32 // byte offset of .got within image
	gotLength    uint32 // entries after the two reserved header words
	hashOffset   uint32 // byte offset of .hash
	symtabOffset uint32 // byte offset of .dynsym
	strtabOffset uint32 // byte offset of .dynstr
	symbolCount  uint32

	// Introspection-only fields, not acted on by the loader itself;
	// surfaced for debug tooling.
	strSize    uint32
	hiPageNo   uint32
	unrefExtNo uint32

	isDefault bool
}

// Default is the sentinel descriptor meaning "resolve against the
// process-wide symbol map" (the RTLD_DEFAULT of the original API).
var Default = &Descriptor{isDefault: true}

// Size returns the total image size in bytes.
func (d *Descriptor) Size() uint32 { return d.size }

// GOTLength returns the number of GOT entries excluding the two reserved
// header words.
func (d *Descriptor) GOTLength() uint32 { return d.gotLength }

// SymbolCount returns the total number of .dynsym entries.
func (d *Descriptor) SymbolCount() uint32 { return d.symbolCount }

// StrSize, HiPageNo and UnrefExtNo surface DT_STRSZ, DT_MIPS_HIPAGENO and
// DT_MIPS_UNREFEXTNO for debug tooling; the loader itself never acts on
// any of the three.
func (d *Descriptor) StrSize() uint32    { return d.strSize }
func (d *Descriptor) HiPageNo() uint32   { return d.hiPageNo }
func (d *Descriptor) UnrefExtNo() uint32 { return d.unrefExtNo }

// baseAddr is the runtime base address: that of image[0]. Every
// pointer-shaped value stored in the image (GOT entries, defined st_value
// fields) is relocated by adding this exactly once. Using the backing
// array's real address (rather than a synthetic zero base) is what lets
// addrToOffset and the ctor/dtor runner round-trip a "resolved" address
// back into the image.
func (d *Descriptor) baseAddr() uint32 {
	return uint32(uintptr(unsafe.Pointer(&d.image[0])))
}

func (d *Descriptor) u32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(d.image[offset : offset+4])
}

func (d *Descriptor) setU32(offset uint32, v uint32) {
	binary.LittleEndian.PutUint32(d.image[offset:offset+4], v)
}

func (d *Descriptor) u16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(d.image[offset : offset+2])
}

// got returns the value stored in GOT entry i (0-based, so got(0) is the
// reserved trampoline slot and got(1) the reserved back-pointer slot).
func (d *Descriptor) got(i uint32) uint32 {
	return d.u32(d.gotOffset + 4*i)
}

func (d *Descriptor) setGot(i uint32, v uint32) {
	d.setU32(d.gotOffset+4*i, v)
}

// GOTSlot exposes GOT entry (2+i) for debugging/tests; i ranges over
// [0, GOTLength()).
func (d *Descriptor) GOTSlot(i uint32) uint32 { return d.got(2 + i) }

// TrampolineSlot exposes got[0], the reserved lazy-resolve trampoline
// address.
func (d *Descriptor) TrampolineSlot() uint32 { return d.got(0) }

// BackpointerSlot exposes got[1], the reserved back-pointer to this
// descriptor.
func (d *Descriptor) BackpointerSlot() uint32 { return d.got(1) }

const elf32SymSize = 16

func (d *Descriptor) symOffset(i uint32) uint32 {
	return d.symtabOffset + i*elf32SymSize
}

func (d *Descriptor) symName(i uint32) uint32  { return d.u32(d.symOffset(i)) }
func (d *Descriptor) symValue(i uint32) uint32 { return d.u32(d.symOffset(i) + 4) }
func (d *Descriptor) symSize(i uint32) uint32  { return d.u32(d.symOffset(i) + 8) }
func (d *Descriptor) symInfo(i uint32) byte    { return d.image[d.symOffset(i)+12] }
func (d *Descriptor) symShndx(i uint32) uint16 { return d.u16(d.symOffset(i) + 14) }
func (d *Descriptor) setSymValue(i, v uint32)  { d.setU32(d.symOffset(i)+4, v) }

const (
	sttObject = 1
	sttFunc   = 2
)

func elfSymType(info byte) byte { return info & 0xf }

// symNameString resolves the name of .dynsym entry i against .dynstr.
func (d *Descriptor) symNameString(i uint32) string {
	return d.cstr(d.strtabOffset + d.symName(i))
}

func (d *Descriptor) cstr(offset uint32) string {
	end := offset
	for end < uint32(len(d.image)) && d.image[end] != 0 {
		end++
	}
	return string(d.image[offset:end])
}

// hash table accessors: ELF Sys-V .hash layout is
// [nbucket, nchain, bucket[0..nbucket), chain[0..nchain)].
func (d *Descriptor) hashWord(i uint32) uint32 { return d.u32(d.hashOffset + 4*i) }
func (d *Descriptor) hashNBucket() uint32      { return d.hashWord(0) }
func (d *Descriptor) hashBucket(b uint32) uint32 {
	return d.hashWord(2 + b)
}
func (d *Descriptor) hashChain(c uint32) uint32 {
	return d.hashWord(2 + d.hashNBucket() + c)
}
