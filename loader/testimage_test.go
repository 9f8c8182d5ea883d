package loader

import (
	"encoding/binary"
	"testing"
)

// testSymbol describes one .dynsym entry for buildTestImage. value is the
// pre-relocation st_value: either an in-image data offset (for defined
// symbols) or the "stub" placeholder an external reference's GOT slot is
// pre-seeded with, in the MIPS PIC convention where an undefined function
// or object symbol's st_value doubles as its lazy-binding stub address.
type testSymbol struct {
	name  string
	value uint32
	size  uint32
	info  byte
	shndx uint16
}

const (
	sttObjectInfo = sttObject
	sttFuncInfo   = sttFunc
)

// testImage is the assembled byte slice plus the offsets buildTestImage
// computed, so tests can locate extra payload (e.g. a __CTOR_LIST__ array)
// they appended after .got.
type testImage struct {
	data      []byte
	gotOffset uint32
}

// buildTestImage assembles a minimal MIPS PIC image with the fixed section
// order .dynamic, .dynsym, .hash, .dynstr, .got. syms[0] must be the
// reserved null symbol (name "", value 0), as every ELF .dynsym table
// reserves STN_UNDEF at index 0; extraPayload (if non-empty) is appended
// after .got and can be referenced by a defined symbol's value as an
// offset into the whole image.
func buildTestImage(t *testing.T, localGot []uint32, syms []testSymbol, firstGotSym uint32, extraPayload []byte, badSyment bool) testImage {
	t.Helper()
	if len(syms) == 0 || syms[0].name != "" {
		t.Fatalf("buildTestImage: syms[0] must be the reserved null symbol")
	}

	// .dynstr: leading NUL for the null symbol's empty name, then one
	// NUL-terminated string per symbol name.
	strtab := []byte{0}
	nameOffsets := make([]uint32, len(syms))
	for i, s := range syms {
		if s.name == "" {
			continue
		}
		nameOffsets[i] = uint32(len(strtab))
		strtab = append(strtab, s.name...)
		strtab = append(strtab, 0)
	}

	// .dynsym
	dynsym := make([]byte, 16*len(syms))
	for i, s := range syms {
		off := 16 * i
		binary.LittleEndian.PutUint32(dynsym[off:], nameOffsets[i])
		binary.LittleEndian.PutUint32(dynsym[off+4:], s.value)
		binary.LittleEndian.PutUint32(dynsym[off+8:], s.size)
		dynsym[off+12] = s.info
		dynsym[off+14] = byte(s.shndx)
		dynsym[off+15] = byte(s.shndx >> 8)
	}

	// .hash: ELF Sys-V format, [nbucket, nchain, bucket[], chain[]],
	// prepend-to-chain, terminator 0 (index 0 reserved for the null symbol).
	n := uint32(len(syms))
	nbucket := n
	if nbucket == 0 {
		nbucket = 1
	}
	hash := make([]uint32, 2+nbucket+n)
	hash[0] = nbucket
	hash[1] = n
	for i := uint32(1); i < n; i++ {
		name := syms[i].name
		if name == "" {
			continue
		}
		b := pjw(name) % nbucket
		hash[2+nbucket+i] = hash[2+b]
		hash[2+b] = i
	}
	hashBytes := make([]byte, len(hash)*4)
	for i, w := range hash {
		binary.LittleEndian.PutUint32(hashBytes[4*i:], w)
	}

	// .got: two reserved header words (written by Init, zero for now)
	// plus localGot, plus one slot per external symbol from firstGotSym
	// onward, pre-seeded with that symbol's stub value.
	externalCount := n - firstGotSym
	gotWords := make([]uint32, 2+uint32(len(localGot))+externalCount)
	copy(gotWords[2:], localGot)
	for i := uint32(0); i < externalCount; i++ {
		gotWords[2+uint32(len(localGot))+i] = syms[firstGotSym+i].value
	}
	gotBytes := make([]byte, len(gotWords)*4)
	for i, w := range gotWords {
		binary.LittleEndian.PutUint32(gotBytes[4*i:], w)
	}

	dynsymOffset := uint32(96)
	hashOffset := dynsymOffset + uint32(len(dynsym))
	dynstrOffset := hashOffset + uint32(len(hashBytes))
	gotOffset := dynstrOffset + uint32(len(strtab))

	syment := uint32(16)
	if badSyment {
		syment = 12
	}

	type dynTag struct{ tag, val uint32 }
	dyn := []dynTag{
		{dtPLTGOT, gotOffset},
		{dtHash, hashOffset},
		{dtStrtab, dynstrOffset},
		{dtSymtab, dynsymOffset},
		{dtSyment, syment},
		{dtMipsRldVersion, 1},
		{dtMipsFlags, 0},
		// DT_MIPS_LOCAL_GOTNO counts the 2 reserved header words too (real
		// MIPS ABI convention), so it's len(localGot)+2, not len(localGot).
		{dtMipsLocalGotno, uint32(len(localGot)) + 2},
		{dtMipsBaseAddress, 0},
		{dtMipsSymtabno, n},
		{dtMipsGotsym, firstGotSym},
		{dtNull, 0},
	}
	dynamic := make([]byte, 8*len(dyn))
	for i, d := range dyn {
		binary.LittleEndian.PutUint32(dynamic[8*i:], d.tag)
		binary.LittleEndian.PutUint32(dynamic[8*i+4:], d.val)
	}
	if uint32(len(dynamic)) != dynsymOffset {
		t.Fatalf("buildTestImage: .dynamic size drifted (%d != %d)", len(dynamic), dynsymOffset)
	}

	image := append(dynamic, dynsym...)
	image = append(image, hashBytes...)
	image = append(image, strtab...)
	image = append(image, gotBytes...)
	image = append(image, extraPayload...)

	return testImage{data: image, gotOffset: gotOffset}
}

// predictExtraOffset computes where extraPayload will land in the image
// buildTestImage assembles for the same (localGot, syms, firstGotSym)
// triple, without needing real symbol values — every section's size up to
// .got depends only on names and counts. Tests use this to place a
// __CTOR_LIST__/__DTOR_LIST__ array and wire a symbol's value to it before
// the image (and therefore the final symtab bytes) actually exist.
func predictExtraOffset(syms []testSymbol, localGot []uint32, firstGotSym uint32) uint32 {
	strtabSize := 1
	for _, s := range syms {
		if s.name == "" {
			continue
		}
		strtabSize += len(s.name) + 1
	}
	n := uint32(len(syms))
	nbucket := n
	if nbucket == 0 {
		nbucket = 1
	}
	dynsymSize := 16 * n
	hashSize := (2 + nbucket + n) * 4
	externalCount := n - firstGotSym
	gotSize := (2 + uint32(len(localGot)) + externalCount) * 4
	return 96 + dynsymSize + hashSize + uint32(strtabSize) + gotSize
}

// appendFunctionArray appends a __CTOR_LIST__/__DTOR_LIST__-shaped array
// (count word followed by that many "function pointer" words, here just
// distinguishable sentinel values rather than real code addresses; the
// ctor/dtor runner passes these words on as stored, without relocation) to buf,
// returning the new buffer and the offset the array starts at.
func appendFunctionArray(buf []byte, entries []uint32) ([]byte, uint32) {
	offset := uint32(len(buf))
	word := make([]byte, 4)
	binary.LittleEndian.PutUint32(word, uint32(len(entries)))
	buf = append(buf, word...)
	for _, e := range entries {
		binary.LittleEndian.PutUint32(word, e)
		buf = append(buf, word...)
	}
	return buf, offset
}
