package loader

import (
	"strconv"
	"strings"
)

// acceptedMapType reports whether the uppercased nm-style type letter is
// one this loader accepts: T (.text), R (.rodata), D (.data), B (.bss).
func acceptedMapType(b byte) bool {
	switch b {
	case 'T', 'R', 'D', 'B':
		return true
	}
	return false
}

// ParseSymbolMap parses an nm-style text dump (one symbol per line,
// "NAME TYPE ADDR [SIZE ...]", whitespace separated) and installs it as
// the process-wide symbol map, replacing any map already loaded. Returns
// the count of accepted symbols, or an error.
//
// Index 0 of entryTable/the chain array is reserved and never assigned to
// a real symbol (see DESIGN.md decision 5): without that reservation, the
// first accepted symbol would be unreachable whenever its own bucket has
// no other entries.
func ParseSymbolMap(text []byte) (int, error) {
	UnloadSymbolMap()

	lines := strings.Split(string(text), "\n")
	maxEntries := uint32(len(lines)) // upper bound: every split segment could be a valid symbol line, trailing newline or not
	buckets := maxEntries
	if buckets == 0 {
		buckets = 1
	}
	chainSlots := maxEntries + 1 // +1 reserves index 0, see doc comment above

	logf("dlinker: predicted at most %d entries, %d hash buckets\n", maxEntries, buckets)

	hashTable := make([]uint32, 2+buckets+chainSlots)
	entryTable := make([]mapEntry, chainSlots)
	for i := range hashTable {
		hashTable[i] = chainEndWrite
	}
	hashTable[0] = buckets
	hashTable[1] = chainSlots

	m := &symbolMap{buckets: buckets, entries: maxEntries, hashTable: hashTable, entryTable: entryTable}

	index := uint32(1)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		name := fields[0]
		if len(name) > 63 {
			name = name[:63]
		}
		typeLetter := strings.ToUpper(fields[1])[0]

		addr64, err := strconv.ParseUint(strings.TrimPrefix(fields[2], "0x"), 16, 64)
		if err != nil {
			continue
		}
		addr := uintptr(uint32(addr64)) // drop upper 32 bits of a 64-bit hex address

		if addr == 0 || !acceptedMapType(typeLetter) {
			continue
		}

		h := pjw(name)
		b := h % buckets
		logf("dlinker: map sym %#08x [%c %s]\n", addr, typeLetter, name)

		entryTable[index] = mapEntry{hash: h, addr: addr}

		cursor := &hashTable[2+b]
		for *cursor != chainEndWrite {
			cursor = &hashTable[2+buckets+*cursor]
		}
		*cursor = index
		index++
	}

	accepted := int(index - 1)
	if accepted == 0 {
		return 0, fail(ErrNoSymbols, "")
	}

	mapMu.Lock()
	currentMap = m
	mapMu.Unlock()

	logf("dlinker: parsed %d symbols from map\n", accepted)
	return accepted, nil
}

// LoadSymbolMap reads filename via the host file collaborator and parses it
// as a symbol map.
func LoadSymbolMap(filename string) (int, error) {
	data, err := loadFile(filename)
	if err != nil {
		return 0, err
	}
	return ParseSymbolMap(data)
}
