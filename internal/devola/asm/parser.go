package asm

import (
	"strconv"
	"strings"

	"github.com/chennnyl/asm-popola/internal/devola/inst"
)

// parseNumber parses a decimal, binary (`b` suffix), or hex (`h`
// suffix) literal, case-insensitively. It returns the value widened to
// 16 bits; the caller checks it against the contextual byte/word width.
func parseNumber(token string) (uint16, bool) {
	if token == "" {
		return 0, false
	}
	lower := strings.ToLower(token)
	var (
		digits string
		base   int
	)
	switch {
	case strings.HasSuffix(lower, "b") && len(lower) > 1:
		digits, base = lower[:len(lower)-1], 2
	case strings.HasSuffix(lower, "h") && len(lower) > 1:
		digits, base = lower[:len(lower)-1], 16
	default:
		digits, base = lower, 10
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil || v > 0xFFFF {
		return 0, false
	}
	return uint16(v), true
}

// parseOperand parses a single addressing-mode token in the grammar of
// spec.md §4.2: a bare register letter, `XY`, `XY+<literal>` (an
// IndexOffset extension this assembler adds to expose C2's
// IndexOffset mode in source text), `#<literal>` (Indirect), or a bare
// literal (Immediate, must fit in a byte).
func parseOperand(token string, line int) (inst.Operand, *Error) {
	switch {
	case strings.EqualFold(token, "XY"):
		return inst.IndexOperand(), nil
	case len(strings.ToUpper(token)) > 2 && strings.HasPrefix(strings.ToUpper(token), "XY+"):
		rest := token[3:]
		v, ok := parseNumber(rest)
		if !ok || v > 0xFF {
			return inst.Operand{}, &Error{Kind: InvalidNumericLiteral, Line: line, Info: token}
		}
		return inst.IndexOffsetOperand(byte(v)), nil
	case strings.HasPrefix(token, "#"):
		v, ok := parseNumber(token[1:])
		if !ok {
			return inst.Operand{}, &Error{Kind: InvalidNumericLiteral, Line: line, Info: token}
		}
		return inst.Ind(v), nil
	case len(token) == 1:
		if r, ok := inst.ParseRegister(token[0]); ok {
			return inst.Reg(r), nil
		}
		v, ok := parseNumber(token)
		if !ok || v > 0xFF {
			return inst.Operand{}, &Error{Kind: InvalidNumericLiteral, Line: line, Info: token}
		}
		return inst.Imm8(byte(v)), nil
	default:
		v, ok := parseNumber(token)
		if !ok || v > 0xFF {
			return inst.Operand{}, &Error{Kind: InvalidNumericLiteral, Line: line, Info: token}
		}
		return inst.Imm8(byte(v)), nil
	}
}

// parseRegisterArg parses a bare single-letter register argument, as
// used by push/pop and the embedded register letter of ld/st mnemonics.
func parseRegisterArg(token string, line int) (inst.Register, *Error) {
	if len(token) != 1 {
		return 0, &Error{Kind: InvalidRegister, Line: line, Info: token}
	}
	r, ok := inst.ParseRegister(token[0])
	if !ok {
		return 0, &Error{Kind: InvalidRegister, Line: line, Info: token}
	}
	return r, nil
}

// parseFlagArg parses a bare single-letter flag argument.
func parseFlagArg(token string, line int) (inst.Flag, *Error) {
	if len(token) != 1 {
		return 0, &Error{Kind: InvalidFlag, Line: line, Info: token}
	}
	f, ok := inst.ParseFlag(token[0])
	if !ok {
		return 0, &Error{Kind: InvalidFlag, Line: line, Info: token}
	}
	return f, nil
}

// parseLine parses one preprocessed source line into an instruction.
// On error it returns an OpNop placeholder alongside the error so
// instruction indices are preserved for the label-resolution pass.
func parseLine(l sourceLine) (inst.Instruction, *Error) {
	tokens := strings.Split(l.text, " ")
	head := tokens[0]

	if strings.HasSuffix(head, ":") && len(head) > 1 {
		name := head[:len(head)-1]
		return inst.LabelDef(name), nil
	}

	mnemonic := strings.ToLower(head)
	args := tokens[1:]

	switch {
	case strings.HasPrefix(mnemonic, "ld") && len(mnemonic) == 3:
		dest, ferr := parseRegisterArg(string(mnemonic[2]), l.number)
		if ferr != nil {
			return nopWithError(ferr)
		}
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		operand, oerr := parseOperand(args[0], l.number)
		if oerr != nil {
			return nopWithError(oerr)
		}
		return inst.Load(dest, operand), nil

	case strings.HasPrefix(mnemonic, "st") && len(mnemonic) == 3:
		src, ferr := parseRegisterArg(string(mnemonic[2]), l.number)
		if ferr != nil {
			return nopWithError(ferr)
		}
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		operand, oerr := parseOperand(args[0], l.number)
		if oerr != nil {
			return nopWithError(oerr)
		}
		return inst.Store(src, operand), nil

	case mnemonic == "inc":
		return inst.Instruction{Op: inst.OpIncrement}, nil
	case mnemonic == "dec":
		return inst.Instruction{Op: inst.OpDecrement}, nil
	case mnemonic == "nop":
		return inst.Instruction{Op: inst.OpNop}, nil
	case mnemonic == "ret":
		return inst.Instruction{Op: inst.OpReturn}, nil

	case mnemonic == "add", mnemonic == "sub", mnemonic == "cmp", mnemonic == "addxy", mnemonic == "subxy":
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		operand, oerr := parseOperand(args[0], l.number)
		if oerr != nil {
			return nopWithError(oerr)
		}
		op := map[string]inst.Op{
			"add":   inst.OpAdd,
			"sub":   inst.OpSubtract,
			"cmp":   inst.OpCompare,
			"addxy": inst.OpAddXY,
			"subxy": inst.OpSubtractXY,
		}[mnemonic]
		return inst.Instruction{Op: op, Operand: operand}, nil

	case mnemonic == "jmp":
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		return inst.LabeledJump(inst.JumpType{Kind: inst.Unconditional}, args[0]), nil

	case strings.HasPrefix(mnemonic, "j") && len(mnemonic) >= 2:
		jt, ferr := parseConditionalJump(mnemonic, l.number)
		if ferr != nil {
			return nopWithError(ferr)
		}
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		return inst.LabeledJump(jt, args[0]), nil

	case mnemonic == "call":
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		return inst.LabeledCall(args[0]), nil

	case mnemonic == "push":
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		r, ferr := parseRegisterArg(args[0], l.number)
		if ferr != nil {
			return nopWithError(ferr)
		}
		return inst.Instruction{Op: inst.OpPush, Register: r}, nil

	case mnemonic == "pop":
		if len(args) != 1 {
			return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
		}
		r, ferr := parseRegisterArg(args[0], l.number)
		if ferr != nil {
			return nopWithError(ferr)
		}
		return inst.Instruction{Op: inst.OpPop, Register: r}, nil

	default:
		return nopWithError(&Error{Kind: InvalidInstruction, Line: l.number, Info: l.text})
	}
}

// parseConditionalJump parses `j[n]<flag>`, e.g. `jz` (jump if Zero
// set) or `jnz` (jump if Zero clear).
func parseConditionalJump(mnemonic string, line int) (inst.JumpType, *Error) {
	rest := mnemonic[1:]
	sense := true
	if strings.HasPrefix(rest, "n") {
		sense = false
		rest = rest[1:]
	}
	f, ferr := parseFlagArg(rest, line)
	if ferr != nil {
		return inst.JumpType{}, ferr
	}
	return inst.JumpType{Kind: inst.FlagJump, Flag: f, Sense: sense}, nil
}

func nopWithError(e *Error) (inst.Instruction, *Error) {
	return inst.Instruction{Op: inst.OpNop}, e
}
