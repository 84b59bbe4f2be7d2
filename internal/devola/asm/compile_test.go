package asm

import (
	"testing"

	"github.com/chennnyl/asm-popola/internal/devola/inst"
)

func TestCompileLoadStoreAcrossAddressingModes(t *testing.T) {
	src := `
		lda 10
		sta #5
		ldx a
		ldx 0F0h
		ldy 0
		stx xy
	`
	prog, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if len(prog.Instructions) != 6 {
		t.Fatalf("got %d instructions, want 6", len(prog.Instructions))
	}
	if prog.Instructions[3].Operand.Imm != 0xF0 {
		t.Fatalf("hex literal 0F0h parsed as %d, want 0xF0", prog.Instructions[3].Operand.Imm)
	}
}

func TestCompileForwardLabelResolution(t *testing.T) {
	src := `
		jmp end
		lda 1
		end:
	`
	prog, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	jump := prog.Instructions[0]
	if jump.Op != inst.OpJump {
		t.Fatalf("first instruction is %v, want OpJump", jump.Op)
	}
	nopPC := jump.PC
	if prog.Instructions[nopPC].Op != inst.OpNop {
		t.Fatalf("jump target pc %d is not a Nop", nopPC)
	}
	if prog.Symbols[nopPC] != "end" {
		t.Fatalf("symbol table missing end -> %d, got %q", nopPC, prog.Symbols[nopPC])
	}
}

func TestCompileMissingLabelDiagnostic(t *testing.T) {
	src := "jmp nowhere\n"
	_, err := Compile(src)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	list, ok := err.(ErrorList)
	if !ok {
		t.Fatalf("error is %T, want ErrorList", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d errors, want exactly 1", len(list))
	}
	if list[0].Kind != InvalidLabel || list[0].Info != "nowhere" || list[0].Line != 1 {
		t.Fatalf("unexpected error: %+v", list[0])
	}
}

func TestCompileCollectsAllErrors(t *testing.T) {
	src := `
		jmp missing1
		ldz 5
		jmp missing2
	`
	_, err := Compile(src)
	list, ok := err.(ErrorList)
	if !ok {
		t.Fatalf("error is %T, want ErrorList", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(list), list)
	}
}

func TestCompileConditionalJumpMnemonics(t *testing.T) {
	src := `
		jz target
		jnz target
		target:
	`
	prog, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if prog.Instructions[0].Jump.Flag != inst.Zero || prog.Instructions[0].Jump.Sense != true {
		t.Fatalf("jz did not parse as Zero/true: %+v", prog.Instructions[0].Jump)
	}
	if prog.Instructions[1].Jump.Flag != inst.Zero || prog.Instructions[1].Jump.Sense != false {
		t.Fatalf("jnz did not parse as Zero/false: %+v", prog.Instructions[1].Jump)
	}
}

func TestCompileCommentsAndWhitespace(t *testing.T) {
	src := "   lda   10   ; load ten\n\n\t; a full comment line\n   nop  \n"
	prog, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(prog.Instructions))
	}
}

func TestNumericLiteralMustFitContextWidth(t *testing.T) {
	_, err := Compile("lda 300\n")
	if err == nil {
		t.Fatalf("expected InvalidNumericLiteral for an immediate that doesn't fit a byte")
	}
}
