//go:build (linux || darwin || freebsd) && (amd64 || arm64)

// Package clib binds the C library's calloc and free at runtime with purego,
// so off-heap storage is available without cgo.
package clib

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ErrNotLoaded is returned when the C library could not be opened.
var ErrNotLoaded = errors.New("clib: C library not loaded")

var (
	calloc func(n, size uintptr) unsafe.Pointer
	free   func(p unsafe.Pointer)

	loadOnce sync.Once
	loadErr  error
	loaded   bool
)

// Load opens the C library and registers calloc and free. It is safe to call
// multiple times; subsequent calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		loaded = loadErr == nil
	})
	return loadErr
}

// IsLoaded reports whether Load succeeded.
func IsLoaded() bool {
	return loaded
}

func doLoad() error {
	var lastErr error
	for _, name := range libraryNames() {
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		purego.RegisterLibFunc(&calloc, lib, "calloc")
		purego.RegisterLibFunc(&free, lib, "free")
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNotLoaded, lastErr)
}

func libraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/usr/lib/libSystem.B.dylib"}
	case "freebsd":
		return []string{"libc.so.7"}
	default:
		return []string{"libc.so.6", "libc.so"}
	}
}

// Calloc returns zeroed storage for n elements of size bytes, or nil when the
// C allocator is out of memory.
func Calloc(n, size uintptr) (unsafe.Pointer, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	return calloc(n, size), nil
}

// Free releases storage returned by Calloc. Free(nil) is a no-op.
func Free(p unsafe.Pointer) {
	if p == nil || !loaded {
		return
	}
	free(p)
}
