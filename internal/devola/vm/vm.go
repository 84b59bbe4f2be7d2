// Package vm is the C4 component: the fetch-decode-execute loop, flag
// arithmetic, call/return linkage, and host-extension dispatch. It is
// single-threaded and non-reentrant — Step/Run must never be called
// concurrently on the same VM.
package vm

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/chennnyl/asm-popola/internal/devola/inst"
	"github.com/chennnyl/asm-popola/internal/devola/mem"
)

// Extension is a host callback installed under a name in the VM's
// extension table. It receives exclusive mutable access to the VM for
// the duration of the call and must not retain that access across its
// return; it typically reads its arguments off the stack.
type Extension func(*VM) error

// VM owns its program vector, memory, optional symbol table, and
// optional extension table for its entire lifetime.
type VM struct {
	Mem        *mem.Memory
	Program    []inst.Instruction
	Symbols    map[int]string
	Extensions map[string]Extension

	pc int

	trace     io.Writer
	callNames []string
}

// New constructs a VM around a resolved program. Memory and registers
// start zeroed except the stack-pointer MMIO cells, which mem.New
// seeds to mem.InitialStackPointer.
func New(program []inst.Instruction, symbols map[int]string) *VM {
	return &VM{
		Mem:        mem.New(),
		Program:    program,
		Symbols:    symbols,
		Extensions: make(map[string]Extension),
	}
}

// Register installs a host extension under name, callable from the
// program by a Call(Library) instruction naming it. The assembler's
// `call` mnemonic resolves only local labels, so such instructions are
// built with inst.CallLibraryInstr.
func (v *VM) Register(name string, fn Extension) {
	v.Extensions[name] = fn
}

// EnableTrace turns on the textual debug trace: each Call(Local)
// prints "Call <name>" and each matching Return prints
// "<name> returned <B>" to w. Neither affects semantics.
func (v *VM) EnableTrace(w io.Writer) {
	v.trace = w
}

// PC returns the current program counter.
func (v *VM) PC() int { return v.pc }

// Step executes exactly one fetch-decode-execute cycle. It returns
// nil after executing an instruction (including the last one), the
// unexported end-of-program sentinel when pc already addresses past
// the last instruction (Run turns it into a nil return; callers
// stepping manually can check Done first), or a non-nil error for
// InvalidArgument/Unimplemented/assertion failures.
func (v *VM) Step() error {
	if v.Done() {
		return errEndCode
	}
	instr := v.Program[v.pc]
	movedPC, err := v.execute(instr)
	if err != nil {
		return err
	}
	if !movedPC {
		v.pc++
	}
	return nil
}

// Done reports whether pc addresses past the program's last
// instruction.
func (v *VM) Done() bool {
	return v.pc < 0 || v.pc >= len(v.Program)
}

// Run steps the VM until normal termination, ctx is done, or an error
// occurs. A terminal error is wrapped with the failing pc for
// diagnostics; errors.Is still matches the underlying sentinel.
func (v *VM) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pc := v.pc
		err := v.Step()
		switch {
		case err == nil:
			continue
		case errors.Is(err, errEndCode):
			return nil
		default:
			return errors.Wrapf(err, "pc %d (%v)", pc, v.Program[pc].Op)
		}
	}
}

// resolveRValue resolves an 8-bit r-value for any addressing mode.
func (v *VM) resolveRValue(op inst.Operand) byte {
	switch op.Mode {
	case inst.ModeRegister:
		return v.Mem.ReadReg(op.Register)
	case inst.ModeImmediate:
		return op.Imm
	case inst.ModeIndirect:
		return v.Mem.ReadByte(op.Addr)
	case inst.ModeIndex:
		return v.Mem.ReadByte(v.Mem.Index())
	case inst.ModeIndexOffset:
		return v.Mem.ReadByte(v.Mem.Index() + uint16(op.Offset))
	default:
		return 0
	}
}

// resolveLValue resolves the 16-bit address a Store writes to. Only
// Indirect, Index, and IndexOffset are valid store destinations.
func (v *VM) resolveLValue(op inst.Operand) (uint16, error) {
	switch op.Mode {
	case inst.ModeIndirect:
		return op.Addr, nil
	case inst.ModeIndex:
		return v.Mem.Index(), nil
	case inst.ModeIndexOffset:
		return v.Mem.Index() + uint16(op.Offset), nil
	default:
		return 0, ErrInvalidArgument
	}
}

// execute runs one instruction. It returns movedPC=true when the
// instruction assigned pc itself (a taken Jump, a Call, or a Return),
// in which case Step must not also advance pc.
func (v *VM) execute(instr inst.Instruction) (movedPC bool, err error) {
	switch instr.Op {
	case inst.OpLoad:
		v.Mem.WriteReg(instr.Register, v.resolveRValue(instr.Operand))
		return false, nil

	case inst.OpStore:
		addr, err := v.resolveLValue(instr.Operand)
		if err != nil {
			return false, err
		}
		v.Mem.WriteByte(addr, v.Mem.ReadReg(instr.Register))
		return false, nil

	case inst.OpIncrement:
		prev := v.Mem.ReadReg(inst.A)
		wrapped := prev == 0xFF
		result := prev + 1 // wraps to 0 when prev == 0xFF
		v.Mem.WriteReg(inst.A, result)
		applyZero(v.Mem, wrapped)
		applySignParity(v.Mem, result)
		return false, nil

	case inst.OpDecrement:
		prev := v.Mem.ReadReg(inst.A)
		wrapped := prev == 0x00
		result := prev - 1 // wraps to 0xFF when prev == 0x00
		v.Mem.WriteReg(inst.A, result)
		applyZero(v.Mem, wrapped)
		applySignParity(v.Mem, result)
		return false, nil

	case inst.OpAdd:
		acc := v.Mem.ReadReg(inst.A)
		addend := v.resolveRValue(instr.Operand)
		sum := int(acc) + int(addend)
		result := byte(sum)
		v.Mem.WriteReg(inst.A, result)
		applyZero(v.Mem, result == 0)
		applySignParity(v.Mem, result)
		setCarry(v.Mem, sum > 0xFF)
		return false, nil

	case inst.OpSubtract:
		acc := v.Mem.ReadReg(inst.A)
		subtrahend := v.resolveRValue(instr.Operand)
		result := acc - subtrahend
		v.Mem.WriteReg(inst.A, result)
		applyZero(v.Mem, result == 0)
		applySignParity(v.Mem, result)
		setCarry(v.Mem, acc < subtrahend)
		return false, nil

	case inst.OpCompare:
		return false, v.executeCompare(instr.Operand)

	case inst.OpAddXY:
		return false, v.executeAddXY(instr.Operand)

	case inst.OpSubtractXY:
		return false, v.executeSubtractXY(instr.Operand)

	case inst.OpJump:
		return v.executeJump(instr), nil

	case inst.OpCall:
		return v.executeCall(instr)

	case inst.OpReturn:
		v.executeReturn()
		return true, nil

	case inst.OpPush:
		v.push(v.Mem.ReadReg(instr.Register))
		return false, nil

	case inst.OpPop:
		v.Mem.WriteReg(instr.Register, v.pop())
		return false, nil

	case inst.OpNop:
		return false, nil

	case inst.OpAssert:
		got := v.resolveRValue(instr.Operand)
		if got != instr.AssertExpected {
			return false, fmt.Errorf("assertion failed: got %d, want %d", got, instr.AssertExpected)
		}
		return false, nil

	default:
		return false, fmt.Errorf("instruction %v reached the executor unresolved", instr.Op)
	}
}

func (v *VM) executeCompare(op inst.Operand) error {
	acc := v.Mem.ReadReg(inst.A)
	x := v.resolveRValue(op)

	v.Mem.ClearFlag(inst.Zero)
	v.Mem.ClearFlag(inst.Sign)
	v.Mem.ClearFlag(inst.Parity)
	v.Mem.ClearFlag(inst.Carry)

	if acc == x {
		v.Mem.SetFlag(inst.Zero)
	}
	if acc&0x80 == x&0x80 {
		v.Mem.SetFlag(inst.Sign)
	}
	if acc&1 == x&1 {
		v.Mem.SetFlag(inst.Parity)
	}
	if acc < x {
		v.Mem.SetFlag(inst.Carry)
	}
	return nil
}

func (v *VM) executeAddXY(op inst.Operand) error {
	xy := v.Mem.Index()
	operand := uint16(v.resolveRValue(op))
	sum := uint32(xy) + uint32(operand)
	result := uint16(sum)
	v.writeIndex(result)

	v.Mem.ClearFlag(inst.Zero)
	v.Mem.ClearFlag(inst.Parity)
	v.Mem.ClearFlag(inst.Carry)
	if result == 0 {
		v.Mem.SetFlag(inst.Zero)
	}
	if result&1 != 0 {
		v.Mem.SetFlag(inst.Parity)
	}
	if sum > 0xFFFF {
		v.Mem.SetFlag(inst.Carry)
	}
	return nil
}

func (v *VM) executeSubtractXY(op inst.Operand) error {
	xy := v.Mem.Index()
	operand := uint16(v.resolveRValue(op))
	result := xy - operand
	v.writeIndex(result)

	v.Mem.ClearFlag(inst.Zero)
	v.Mem.ClearFlag(inst.Parity)
	v.Mem.ClearFlag(inst.Carry)
	if result == 0 {
		v.Mem.SetFlag(inst.Zero)
	}
	if result&1 != 0 {
		v.Mem.SetFlag(inst.Parity)
	}
	if xy < operand {
		v.Mem.SetFlag(inst.Carry)
	}
	return nil
}

func (v *VM) writeIndex(xy uint16) {
	msb, lsb := mem.BreakWord(xy)
	v.Mem.WriteReg(inst.X, msb)
	v.Mem.WriteReg(inst.Y, lsb)
}

func (v *VM) executeJump(instr inst.Instruction) (taken bool) {
	switch instr.Jump.Kind {
	case inst.Unconditional:
		taken = true
	case inst.FlagJump:
		set := v.Mem.Flag(instr.Jump.Flag)
		taken = set == instr.Jump.Sense
	}
	if taken {
		v.pc = instr.PC
	}
	return taken
}

func (v *VM) executeCall(instr inst.Instruction) (movedPC bool, err error) {
	switch instr.Call.Kind {
	case inst.CallLocal:
		msb, lsb := mem.BreakWord(uint16(v.pc + 1))
		v.push(msb)
		v.push(lsb)
		v.pushCallName(instr.Call.PC)
		v.pc = instr.Call.PC
		return true, nil
	case inst.CallLibrary:
		fn, ok := v.Extensions[instr.Call.Library]
		if !ok {
			return false, errors.Wrapf(ErrUnimplemented, "library %q", instr.Call.Library)
		}
		if err := fn(v); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown call kind %v", instr.Call.Kind)
	}
}

func (v *VM) executeReturn() {
	lsb := v.pop()
	msb := v.pop()
	v.pc = int(mem.BuildWord(msb, lsb))
	v.popCallName()
}

func (v *VM) push(b byte) { v.Mem.Push(b) }
func (v *VM) pop() byte   { return v.Mem.Pop() }

func (v *VM) pushCallName(targetPC int) {
	if v.trace == nil {
		return
	}
	name, ok := v.Symbols[targetPC]
	if !ok {
		name = fmt.Sprintf("0x%04X", targetPC)
	}
	v.callNames = append(v.callNames, name)
	fmt.Fprintf(v.trace, "Call %s\n", name)
}

func (v *VM) popCallName() {
	if v.trace == nil || len(v.callNames) == 0 {
		return
	}
	name := v.callNames[len(v.callNames)-1]
	v.callNames = v.callNames[:len(v.callNames)-1]
	fmt.Fprintf(v.trace, "%s returned %d\n", name, v.Mem.ReadReg(inst.B))
}
