// Package stdlib implements the C5 byte-block helpers (memgetn,
// memclear, memcpy, memset) plus stack-argument shims for memclear,
// memcpy and memset, callable from programs as host extensions.
// memgetn has no shim.
package stdlib

import "github.com/chennnyl/asm-popola/internal/devola/mem"

// MemGetN returns a read-only slice of [start, start+size) in m. The
// caller must not retain it across a mutating call.
func MemGetN(m *mem.Memory, start, size uint16) []byte {
	return m.Slice(start, size)
}

// MemClear writes 0 to every byte of [start, start+size).
func MemClear(m *mem.Memory, start, size uint16) {
	for i := uint16(0); i < size; i++ {
		m.WriteByte(start+i, 0)
	}
}

// MemCopy copies size bytes from source to destination. Behavior when
// the two ranges overlap is unspecified.
func MemCopy(m *mem.Memory, source, destination, size uint16) {
	for i := uint16(0); i < size; i++ {
		m.WriteByte(destination+i, m.ReadByte(source+i))
	}
}

// MemSet copies size bytes from an external buffer to destination.
func MemSet(m *mem.Memory, buf []byte, destination, size uint16) {
	for i := uint16(0); i < size; i++ {
		m.WriteByte(destination+i, buf[i])
	}
}
