package vm

import (
	"github.com/chennnyl/asm-popola/internal/devola/inst"
	"github.com/chennnyl/asm-popola/internal/devola/mem"
)

// applySignParity clears, then conditionally sets, Sign and Parity
// based on the result byte. Increment, Decrement, Add and Subtract
// share this part of the rule; among them only the Zero condition
// varies (Add/Subtract key it off the result, Increment/Decrement key
// it off whether the operation wrapped — see applyZero). Compare,
// AddXY and SubtractXY set their flags directly instead.
//
// Factoring this out keeps each of those instructions' flag block to
// a couple of lines instead of repeating the clear-then-set dance.
func applySignParity(m *mem.Memory, result byte) {
	m.ClearFlag(inst.Sign)
	if result&0x80 != 0 {
		m.SetFlag(inst.Sign)
	}
	m.ClearFlag(inst.Parity)
	if result&0x01 != 0 {
		m.SetFlag(inst.Parity)
	}
}

// applyZero clears, then conditionally sets, the Zero flag from an
// already-computed condition (not always "result == 0" — Increment
// and Decrement key Zero off whether the operation wrapped, per
// spec.md §4.3's table, a deliberate quirk preserved here rather than
// "corrected" to a generic zero-result check).
func applyZero(m *mem.Memory, zero bool) {
	m.ClearFlag(inst.Zero)
	if zero {
		m.SetFlag(inst.Zero)
	}
}

// setCarry clears, then conditionally sets, the Carry flag.
func setCarry(m *mem.Memory, carry bool) {
	m.ClearFlag(inst.Carry)
	if carry {
		m.SetFlag(inst.Carry)
	}
}
