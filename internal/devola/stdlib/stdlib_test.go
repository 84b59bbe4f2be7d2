package stdlib

import (
	"context"
	"testing"

	"github.com/chennnyl/asm-popola/internal/devola/inst"
	"github.com/chennnyl/asm-popola/internal/devola/mem"
	"github.com/chennnyl/asm-popola/internal/devola/vm"
)

func TestMemGetNAndClearRoundTrip(t *testing.T) {
	m := mem.New()
	for i := 0; i < 256; i++ {
		m.WriteByte(uint16(i), byte(i))
	}
	data := MemGetN(m, 0, 256)
	for i := 0; i < 256; i++ {
		if data[i] != byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, data[i], byte(i))
		}
	}

	MemClear(m, 0, 256)
	data = MemGetN(m, 0, 256)
	for i := 0; i < 256; i++ {
		if data[i] != 0 {
			t.Fatalf("byte %d = %d after clear, want 0", i, data[i])
		}
	}
}

func TestMemSet(t *testing.T) {
	m := mem.New()
	buf := []byte{3, 14, 1, 5}
	MemSet(m, buf, 0, 4)
	for i, want := range buf {
		if got := m.ReadByte(uint16(i)); got != want {
			t.Fatalf("byte %d = %d, want %d", i, got, want)
		}
	}
}

func TestMemCopy(t *testing.T) {
	m := mem.New()
	for i := 0; i < 4; i++ {
		m.WriteByte(uint16(10+i), byte(i+1))
	}
	MemCopy(m, 10, 20, 4)
	for i := 0; i < 4; i++ {
		if got := m.ReadByte(uint16(20 + i)); got != byte(i+1) {
			t.Fatalf("byte %d = %d, want %d", 20+i, got, i+1)
		}
	}
}

func pushWord(v *vm.VM, w uint16) {
	msb, lsb := mem.BreakWord(w)
	v.Mem.Push(msb)
	v.Mem.Push(lsb)
}

func TestPopWordOrder(t *testing.T) {
	v := vm.New(nil, nil)
	pushWord(v, 0x1234)
	if got := v.Mem.Pop(); got != 0x34 {
		t.Fatalf("top of stack = 0x%02X, want 0x34 (lsb on top)", got)
	}
	if got := v.Mem.Pop(); got != 0x12 {
		t.Fatalf("next byte = 0x%02X, want 0x12 (msb underneath)", got)
	}
}

func TestExtMemClearStackArgumentOrder(t *testing.T) {
	v := vm.New([]inst.Instruction{inst.CallLibraryInstr("memclear")}, nil)
	for i := uint16(0); i < 8; i++ {
		v.Mem.WriteByte(i, 0xFF)
	}
	// Per spec.md §4.4, push start then size (rightmost pushed last).
	pushWord(v, 0)
	pushWord(v, 8)
	v.Register("memclear", ExtMemClear)

	if err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := uint16(0); i < 8; i++ {
		if v.Mem.ReadByte(i) != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v.Mem.ReadByte(i))
		}
	}
}

func TestInstallAndExtMemSet(t *testing.T) {
	v := vm.New([]inst.Instruction{inst.CallLibraryInstr("memset")}, nil)
	Install(v, []byte{9, 8, 7, 6})
	pushWord(v, 0)
	pushWord(v, 4)

	if err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []byte{9, 8, 7, 6}
	for i, b := range want {
		if v.Mem.ReadByte(uint16(i)) != b {
			t.Fatalf("byte %d = %d, want %d", i, v.Mem.ReadByte(uint16(i)), b)
		}
	}
}
