// Package asm assembles text programs into a resolved instruction
// vector plus a pc→label symbol table (C3). It never fails fast: every
// error encountered across the whole compile attempt is collected and
// returned together.
package asm

import "github.com/chennnyl/asm-popola/internal/devola/inst"

// Program is the result of a successful compile: the resolved
// instruction vector ready for the VM, plus the symbol table used for
// diagnostic trace output.
type Program struct {
	Instructions []inst.Instruction
	Symbols      map[int]string
}

// Compile assembles source text into a Program. On any error, it
// returns a nil Program and an ErrorList containing every error found.
func Compile(source string) (*Program, error) {
	lines := preprocess(source)

	instructions := make([]inst.Instruction, len(lines))
	lineNumbers := make([]int, len(lines))
	var errs ErrorList

	for i, l := range lines {
		instr, err := parseLine(l)
		instructions[i] = instr
		lineNumbers[i] = l.number
		if err != nil {
			errs = append(errs, err)
		}
	}

	resolved, symbols, labelErrs := resolveLabels(instructions, lineNumbers)
	errs = append(errs, labelErrs...)

	if len(errs) > 0 {
		return nil, errs
	}
	return &Program{Instructions: resolved, Symbols: symbols}, nil
}

// resolveLabels performs the label-resolution pass described in
// spec.md §4.2: build a name→pc table from Label placeholders, then
// rewrite every LabeledJump/LabeledCall into its resolved form and
// every Label into a Nop. Instruction indices are never reordered or
// deleted, so forward references always resolve to a valid pc — even
// one that is itself a label on the final line.
func resolveLabels(instructions []inst.Instruction, lineNumbers []int) ([]inst.Instruction, map[int]string, ErrorList) {
	jumpTable := make(map[string]int)
	for pc, instr := range instructions {
		if instr.Op == inst.OpLabel {
			jumpTable[instr.Label] = pc
		}
	}

	symbols := make(map[int]string)
	out := make([]inst.Instruction, len(instructions))
	var errs ErrorList

	for pc, instr := range instructions {
		switch instr.Op {
		case inst.OpLabel:
			symbols[pc] = instr.Label
			out[pc] = inst.Instruction{Op: inst.OpNop}
		case inst.OpLabeledJump:
			target, ok := jumpTable[instr.Label]
			if !ok {
				errs = append(errs, &Error{Kind: InvalidLabel, Line: lineNumbers[pc], Info: instr.Label})
				out[pc] = inst.Instruction{Op: inst.OpNop}
				continue
			}
			out[pc] = inst.Jmp(instr.Jump, target)
		case inst.OpLabeledCall:
			target, ok := jumpTable[instr.Label]
			if !ok {
				errs = append(errs, &Error{Kind: InvalidLabel, Line: lineNumbers[pc], Info: instr.Label})
				out[pc] = inst.Instruction{Op: inst.OpNop}
				continue
			}
			out[pc] = inst.CallLocalInstr(target)
		default:
			out[pc] = instr
		}
	}

	return out, symbols, errs
}
