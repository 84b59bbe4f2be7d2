package stdlib

import (
	"github.com/chennnyl/asm-popola/internal/devola/mem"
	"github.com/chennnyl/asm-popola/internal/devola/vm"
)

// popWord pops a 16-bit argument off the VM's stack. Per spec.md
// §4.4, each 16-bit argument is pushed high byte first, so the low
// byte is on top and is popped first.
func popWord(v *vm.VM) uint16 {
	lo := v.Mem.Pop()
	hi := v.Mem.Pop()
	return mem.BuildWord(hi, lo)
}

// ExtMemClear is the `memclear` host extension: `memclear(start, size)`.
// Stack on entry, top to bottom: size_lo, size_hi, start_lo, start_hi
// — the rightmost argument (size) is pushed last and popped first.
func ExtMemClear(v *vm.VM) error {
	size := popWord(v)
	start := popWord(v)
	MemClear(v.Mem, start, size)
	return nil
}

// ExtMemCopy is the `memcpy` host extension:
// `memcpy(source, destination, size)`.
func ExtMemCopy(v *vm.VM) error {
	size := popWord(v)
	destination := popWord(v)
	source := popWord(v)
	MemCopy(v.Mem, source, destination, size)
	return nil
}

// extMemSet returns the `memset` host extension bound to a fixed
// external buffer, since a VM program has no way to hand the VM an
// arbitrary host byte slice through the stack — only the destination
// and size travel across that interface: `memset(destination, size)`.
func extMemSet(buf []byte) vm.Extension {
	return func(v *vm.VM) error {
		size := popWord(v)
		destination := popWord(v)
		MemSet(v.Mem, buf, destination, size)
		return nil
	}
}

// Install registers memclear, memcpy, and memset as host extensions
// on v, so Call(Library) instructions naming them (built with
// inst.CallLibraryInstr) reach them; the assembler's `call` mnemonic
// resolves only local labels. memset copies from buf.
func Install(v *vm.VM, buf []byte) {
	v.Register("memclear", ExtMemClear)
	v.Register("memcpy", ExtMemCopy)
	v.Register("memset", extMemSet(buf))
}
