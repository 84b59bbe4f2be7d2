// Package mem holds the VM's byte-addressable memory, register file,
// and flags byte. It is the C1 component: a 64 KiB linear store plus
// five byte-registers and MMIO aliases for the stack pointer. Only
// instructions (via the vm package) mutate it.
package mem

import "github.com/chennnyl/asm-popola/internal/devola/inst"

// Size is the total address space, matching MEMORY_SIZE in the spec.
const Size = 65536

// MMIO is the base address of the 16-byte memory-mapped I/O region.
const MMIO uint16 = 0x0FF0

// StackPointerMSB and StackPointerLSB mirror the logical stack
// pointer into MMIO, MSB first.
const (
	StackPointerMSB uint16 = MMIO + 0x0
	StackPointerLSB uint16 = MMIO + 0x1
)

// InitialStackPointer is where a freshly constructed VM's stack
// pointer starts; the stack grows downward from here.
const InitialStackPointer uint16 = 0x0F00

// VRAMBase is the first address of the VRAM window (see package vram).
const VRAMBase uint16 = 0x6000

// Memory is the VM's entire mutable state: the 64 KiB byte array, the
// five registers, and the flags byte. The stack pointer is stored only
// in the MMIO cells; ReadStackPointer/WriteStackPointer read and write
// those cells directly so MMIO stays the single source of truth.
type Memory struct {
	bytes     [Size]byte
	registers [5]byte
	flags     byte
}

// New returns a zeroed Memory with the stack pointer MMIO cells
// initialized to InitialStackPointer.
func New() *Memory {
	m := &Memory{}
	m.WriteStackPointer(InitialStackPointer)
	return m
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr uint16) byte { return m.bytes[addr] }

// WriteByte sets the byte at addr.
func (m *Memory) WriteByte(addr uint16, v byte) { m.bytes[addr] = v }

// Slice returns a read-only view of [start, start+size). The caller
// must not retain it across a mutating call.
func (m *Memory) Slice(start, size uint16) []byte {
	return m.bytes[int(start) : int(start)+int(size)]
}

// ReadReg returns the byte held in register r.
func (m *Memory) ReadReg(r inst.Register) byte { return m.registers[r] }

// WriteReg sets the byte held in register r.
func (m *Memory) WriteReg(r inst.Register, v byte) { m.registers[r] = v }

// Index returns the 16-bit address X:Y (X is the high byte).
func (m *Memory) Index() uint16 {
	return BuildWord(m.registers[inst.X], m.registers[inst.Y])
}

// flagMask returns the bitmask with flag f's bit set.
func flagMask(f inst.Flag) byte {
	switch f {
	case inst.Carry:
		return 1 << 0
	case inst.Zero:
		return 1 << 1
	case inst.Parity:
		return 1 << 2
	case inst.Sign:
		return 1 << 3
	default:
		return 0
	}
}

// Flag reports whether flag f is currently set.
func (m *Memory) Flag(f inst.Flag) bool { return m.flags&flagMask(f) != 0 }

// SetFlag sets flag f.
func (m *Memory) SetFlag(f inst.Flag) { m.flags |= flagMask(f) }

// ClearFlag clears flag f.
func (m *Memory) ClearFlag(f inst.Flag) { m.flags &^= flagMask(f) }

// Flags returns the raw flags byte; bits 4-7 are always zero.
func (m *Memory) Flags() byte { return m.flags }

// ReadStackPointer assembles the 16-bit stack pointer from its MMIO
// mirror cells.
func (m *Memory) ReadStackPointer() uint16 {
	return BuildWord(m.bytes[StackPointerMSB], m.bytes[StackPointerLSB])
}

// WriteStackPointer writes sp back to its MMIO mirror cells.
func (m *Memory) WriteStackPointer(sp uint16) {
	msb, lsb := BreakWord(sp)
	m.bytes[StackPointerMSB] = msb
	m.bytes[StackPointerLSB] = lsb
}

// Push decrements the stack pointer, then writes v at the new pointer.
func (m *Memory) Push(v byte) {
	sp := m.ReadStackPointer() - 1
	m.bytes[sp] = v
	m.WriteStackPointer(sp)
}

// Pop reads the byte at the current stack pointer, then increments it.
func (m *Memory) Pop() byte {
	sp := m.ReadStackPointer()
	v := m.bytes[sp]
	m.WriteStackPointer(sp + 1)
	return v
}

// BuildWord assembles a big-endian 16-bit word from its two bytes.
func BuildWord(msb, lsb byte) uint16 {
	return uint16(msb)<<8 | uint16(lsb)
}

// BreakWord splits a 16-bit word into its big-endian byte pair.
func BreakWord(w uint16) (msb, lsb byte) {
	return byte(w >> 8), byte(w & 0xFF)
}
