package loader

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one of the fixed set of failure modes the linker can
// report.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrFile
	ErrFileMalloc
	ErrFileRead
	ErrNoMap
	ErrMapMalloc
	ErrNoSymbols
	ErrDLLNull
	ErrDLLMalloc
	ErrDLLFormat
	ErrNoFileAPI
	ErrMapSymbol
	ErrDLLSymbol
)

var errorMessages = [...]string{
	ErrNone:       "",
	ErrFile:       "unable to find file",
	ErrFileMalloc: "unable to allocate buffer to load file into",
	ErrFileRead:   "failed to read file",
	ErrNoMap:      "no symbol map has been loaded yet",
	ErrMapMalloc:  "unable to allocate symbol map structures",
	ErrNoSymbols:  "no symbols found in symbol map",
	ErrDLLNull:    "unable to initialize module from null image",
	ErrDLLMalloc:  "unable to allocate module metadata",
	ErrDLLFormat:  "unsupported module type or format",
	ErrNoFileAPI:  "loader has been built without file support",
	ErrMapSymbol:  "symbol not found in symbol map",
	ErrDLLSymbol:  "symbol not found in module",
}

func (k ErrorKind) String() string {
	if int(k) < 0 || int(k) >= len(errorMessages) {
		return "unknown error"
	}
	return errorMessages[k]
}

// Sentinel errors, one per ErrorKind, so callers can use errors.Is instead
// of polling LastError(). Every internal failure site returns one of these
// (possibly wrapped with fmt.Errorf for extra context) in addition to
// recording the matching ErrorKind in the process-wide error channel.
var (
	ErrFileNotFound      = errors.New(errorMessages[ErrFile])
	ErrFileBufferAlloc   = errors.New(errorMessages[ErrFileMalloc])
	ErrFileReadFailed    = errors.New(errorMessages[ErrFileRead])
	ErrNoSymbolMap       = errors.New(errorMessages[ErrNoMap])
	ErrMapAlloc          = errors.New(errorMessages[ErrMapMalloc])
	ErrEmptySymbolMap    = errors.New(errorMessages[ErrNoSymbols])
	ErrNullImage         = errors.New(errorMessages[ErrDLLNull])
	ErrDescriptorAlloc   = errors.New(errorMessages[ErrDLLMalloc])
	ErrBadImageFormat    = errors.New(errorMessages[ErrDLLFormat])
	ErrFileAPIDisabled   = errors.New(errorMessages[ErrNoFileAPI])
	ErrSymbolNotInMap    = errors.New(errorMessages[ErrMapSymbol])
	ErrSymbolNotInModule = errors.New(errorMessages[ErrDLLSymbol])
)

var sentinelByKind = map[ErrorKind]error{
	ErrFile:       ErrFileNotFound,
	ErrFileMalloc: ErrFileBufferAlloc,
	ErrFileRead:   ErrFileReadFailed,
	ErrNoMap:      ErrNoSymbolMap,
	ErrMapMalloc:  ErrMapAlloc,
	ErrNoSymbols:  ErrEmptySymbolMap,
	ErrDLLNull:    ErrNullImage,
	ErrDLLMalloc:  ErrDescriptorAlloc,
	ErrDLLFormat:  ErrBadImageFormat,
	ErrNoFileAPI:  ErrFileAPIDisabled,
	ErrMapSymbol:  ErrSymbolNotInMap,
	ErrDLLSymbol:  ErrSymbolNotInModule,
}

// lastErrorKind is the process-wide error channel. It is deliberately a
// bare package variable, not mutex-guarded: the linker runs single-threaded
// and cooperatively, so there is never a concurrent writer to race against.
var lastErrorKind = ErrNone

// fail records kind in the process-wide error channel and returns its
// sentinel error, optionally wrapped with additional context via detail.
// Every error-producing path in the loader package funnels through this.
func fail(kind ErrorKind, detail string) error {
	lastErrorKind = kind
	sentinel := sentinelByKind[kind]
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("dlinker: %s: %w", detail, sentinel)
}

// LastError returns a pointer to the last error's message, clearing the
// channel, or nil if no error is pending.
func LastError() *string {
	kind := lastErrorKind
	lastErrorKind = ErrNone
	if kind == ErrNone {
		return nil
	}
	msg := kind.String()
	return &msg
}

// LastErrorKind reports the pending ErrorKind without clearing it. Useful
// for tests and for callers that want to branch on the kind rather than the
// message text.
func LastErrorKind() ErrorKind {
	return lastErrorKind
}
