//go:build !((linux || darwin || freebsd) && (amd64 || arm64))

// Package clib binds the C library's calloc and free at runtime with purego,
// so off-heap storage is available without cgo.
package clib

import (
	"errors"
	"unsafe"
)

// ErrNotLoaded is returned when the C library could not be opened.
var ErrNotLoaded = errors.New("clib: C library not supported on this platform")

// Load always fails on this platform.
func Load() error { return ErrNotLoaded }

// IsLoaded always returns false on this platform.
func IsLoaded() bool { return false }

// Calloc always fails on this platform.
func Calloc(n, size uintptr) (unsafe.Pointer, error) { return nil, ErrNotLoaded }

// Free is a no-op on this platform.
func Free(unsafe.Pointer) {}
