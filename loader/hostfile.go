//go:build unix

package loader

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// loadFile backs Open/LoadSymbolMap's "load bytes by filename" collaborator.
// It reads the file through a unix.Open/unix.Mmap mapping, then returns a
// writable heap copy of the contents and unmaps the file; the returned
// buffer is not itself a mapping.
func loadFile(name string) ([]byte, error) {
	fd, err := unix.Open(name, unix.O_RDONLY, 0)
	if err != nil {
		return nil, fail(ErrFile, fmt.Sprintf("open %s: %v", name, err))
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, fail(ErrFileRead, fmt.Sprintf("stat %s: %v", name, err))
	}
	size := stat.Size
	if size == 0 {
		return []byte{}, nil
	}

	mapped, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fail(ErrFileMalloc, fmt.Sprintf("mmap %s: %v", name, err))
	}

	// Init mutates the image in place (GOT slots, symtab values); the
	// mapping above is read-only, so copy it into an owned,
	// writable buffer before handing it back.
	buf := make([]byte, size)
	copy(buf, mapped)
	if err := unix.Munmap(mapped); err != nil {
		return nil, fail(ErrFileRead, fmt.Sprintf("munmap %s: %v", name, err))
	}

	logf("dlinker: loaded %s (%d bytes)\n", name, len(buf))
	return buf, nil
}
