// Package inst holds the instruction model shared by the assembler and
// the VM executor: instruction variants, addressing modes, and the
// register/flag identifiers they operate on. It is pure data — nothing
// in this package mutates VM state.
package inst

import "fmt"

// Register names one of the VM's five byte-wide registers.
type Register int

const (
	A Register = iota
	X
	Y
	B
	C
)

// String renders the single-letter mnemonic for a register, matching
// the assembler's source syntax.
func (r Register) String() string {
	switch r {
	case A:
		return "A"
	case X:
		return "X"
	case Y:
		return "Y"
	case B:
		return "B"
	case C:
		return "C"
	default:
		return fmt.Sprintf("Register(%d)", int(r))
	}
}

// ParseRegister maps a single letter (case-insensitive) to a Register.
func ParseRegister(letter byte) (Register, bool) {
	switch letter {
	case 'a', 'A':
		return A, true
	case 'x', 'X':
		return X, true
	case 'y', 'Y':
		return Y, true
	case 'b', 'B':
		return B, true
	case 'c', 'C':
		return C, true
	default:
		return 0, false
	}
}

// Flag names one of the four flag bits held in the flags byte.
// Flags are laid out as 0b0000_SPZC, bit 0 is Carry.
type Flag int

const (
	Carry Flag = iota
	Zero
	Parity
	Sign
)

// String renders the single-letter mnemonic for a flag.
func (f Flag) String() string {
	switch f {
	case Carry:
		return "C"
	case Zero:
		return "Z"
	case Parity:
		return "P"
	case Sign:
		return "S"
	default:
		return fmt.Sprintf("Flag(%d)", int(f))
	}
}

// ParseFlag maps a single letter (case-insensitive) to a Flag.
func ParseFlag(letter byte) (Flag, bool) {
	switch letter {
	case 'c', 'C':
		return Carry, true
	case 'z', 'Z':
		return Zero, true
	case 'p', 'P':
		return Parity, true
	case 's', 'S':
		return Sign, true
	default:
		return 0, false
	}
}
