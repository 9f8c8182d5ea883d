//go:build !unix

package loader

import (
	"fmt"
	"os"
)

// loadFile is the non-unix fallback for the host file collaborator: a
// plain os.ReadFile, keeping the same per-OS split between a
// syscall-backed unix path and a simpler fallback elsewhere.
func loadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fail(ErrFile, fmt.Sprintf("open %s: %v", name, err))
		}
		return nil, fail(ErrFileRead, fmt.Sprintf("read %s: %v", name, err))
	}
	logf("dlinker: loaded %s (%d bytes)\n", name, len(data))
	return data, nil
}
