package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chennnyl/asm-popola/internal/devola/mem"
	"github.com/chennnyl/asm-popola/internal/devola/vram"
)

func writeSprite(m *mem.Memory, index int, s vram.Sprite) {
	offset := vram.SpriteStart + uint16(index*vram.SpriteSize)
	m.WriteByte(offset, s.Properties.Encode())
	m.WriteByte(offset+1, s.X)
	m.WriteByte(offset+2, s.Y)
	m.WriteByte(offset+3, s.GfxStart)
	m.WriteByte(offset+4, s.Info)
}

func writePaletteWords(m *mem.Memory, index int, words [vram.PaletteLength]uint16) {
	base := vram.PaletteStart + uint16(index*vram.PaletteSize)
	for i, w := range words {
		hi, lo := mem.BreakWord(w)
		m.WriteByte(base+uint16(i*2), hi)
		m.WriteByte(base+uint16(i*2)+1, lo)
	}
}

func writeTile0(m *mem.Memory, tilemapIndex int, pixels [vram.TileSize]byte) {
	base := vram.TilemapStart + uint16(tilemapIndex*vram.TilemapSize)
	for i, p := range pixels {
		m.WriteByte(base+uint16(i), p)
	}
}

// TestDrawSingleSprite adapts the original's test_render_sprite: an
// 8x8 sprite using a hand-drawn tile pattern and a palette of mostly
// red, checked against specific framebuffer pixels after compositing.
func TestDrawSingleSprite(t *testing.T) {
	m := mem.New()

	red := vram.ColorToRGB15(vram.Color{R: 248, G: 0, B: 0})
	var words [vram.PaletteLength]uint16
	words[0] = 0 // black
	words[1] = red
	words[2] = vram.ColorToRGB15(vram.Color{R: 0, G: 248, B: 0})
	words[3] = vram.ColorToRGB15(vram.Color{R: 0, G: 0, B: 248})
	for i := 4; i < vram.PaletteLength; i++ {
		words[i] = red
	}
	writePaletteWords(m, 0, words)

	writeTile0(m, 0, [vram.TileSize]byte{
		1, 1, 1, 1, 1, 1, 1, 1,
		0, 1, 2, 2, 2, 2, 1, 0,
		0, 0, 1, 3, 3, 1, 0, 0,
		0, 0, 0, 2, 2, 0, 0, 0,
		0, 0, 0, 2, 2, 0, 0, 0,
		0, 0, 1, 3, 3, 1, 0, 0,
		0, 1, 2, 2, 2, 2, 1, 0,
		1, 1, 1, 1, 1, 1, 1, 1,
	})

	writeSprite(m, 0, vram.Sprite{
		Properties: vram.SpriteProperties{TilemapIndex: 0, Size: vram.Size8, PaletteIndex: 0, Priority: 0},
		X:          128, Y: 128, GfxStart: 0, Info: 0b1,
	})

	view := vram.NewView(m)
	fb := make([]byte, FramebufferSize)
	Draw(view, fb)

	pixelAt := func(x, y int) (r, g, b, a byte) {
		off := (y*vram.ScreenWidth + x) * BytesPerPixel
		return fb[off], fb[off+1], fb[off+2], fb[off+3]
	}

	// corner (0,0) of the sprite: palette index 1 -> red
	r, g, b, a := pixelAt(128, 128)
	if r != 248 || g != 0 || b != 0 || a != 0xFF {
		t.Fatalf("sprite corner = (%d,%d,%d,%d), want (248,0,0,255)", r, g, b, a)
	}

	// center of the sprite (row 3, col 4): palette index 2 -> green
	r, g, b, a = pixelAt(128+4, 128+3)
	if r != 0 || g != 248 || b != 0 {
		t.Fatalf("sprite center = (%d,%d,%d), want (0,248,0)", r, g, b)
	}

	// outside the sprite entirely: background fill
	r, g, b, a = pixelAt(0, 0)
	if r != 0 || g != 0 || b != 0 || a != 0xFF {
		t.Fatalf("background pixel = (%d,%d,%d,%d), want (0,0,0,255)", r, g, b, a)
	}
}

func TestDrawSkipsDisabledSprites(t *testing.T) {
	m := mem.New()
	writeSprite(m, 0, vram.Sprite{
		Properties: vram.SpriteProperties{Size: vram.Size8},
		X:          10, Y: 10, GfxStart: 0, Info: 0, // disabled
	})
	view := vram.NewView(m)
	fb := make([]byte, FramebufferSize)
	Draw(view, fb)

	off := (10*vram.ScreenWidth + 10) * BytesPerPixel
	if fb[off] != 0 || fb[off+1] != 0 || fb[off+2] != 0 {
		t.Fatalf("disabled sprite was drawn at (10,10): %v", fb[off:off+4])
	}
}

func TestDrawWritesEveryPixel(t *testing.T) {
	m := mem.New()
	view := vram.NewView(m)
	fb := make([]byte, FramebufferSize)
	Draw(view, fb)
	for i := 3; i < len(fb); i += BytesPerPixel {
		if fb[i] != 0xFF {
			t.Fatalf("pixel at byte %d has alpha %d, want 0xFF (every pixel must be written)", i, fb[i])
		}
	}
}

func TestDrawClipsOutOfBoundsSprite(t *testing.T) {
	m := mem.New()
	writeTile0(m, 0, [vram.TileSize]byte{})
	writeSprite(m, 0, vram.Sprite{
		Properties: vram.SpriteProperties{Size: vram.Size8},
		X:          vram.ScreenWidth - 2, Y: vram.ScreenHeight - 2, GfxStart: 0, Info: 0b1,
	})
	view := vram.NewView(m)
	fb := make([]byte, FramebufferSize)

	// must not panic on an index that would otherwise run off either edge
	Draw(view, fb)
}

func TestImportPNGQuantizesToPalette(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var pal vram.Palette
	pal.Colors[0] = vram.Color{R: 0, G: 0, B: 0}
	pal.Colors[1] = vram.Color{R: 248, G: 0, B: 0}

	data, err := ImportPNG(&buf, 1, pal)
	if err != nil {
		t.Fatalf("ImportPNG: %v", err)
	}
	if len(data) != vram.TileSize {
		t.Fatalf("len(data) = %d, want %d", len(data), vram.TileSize)
	}
	for i, idx := range data {
		if idx != 1 {
			t.Fatalf("pixel %d quantized to index %d, want 1 (nearest to solid red)", i, idx)
		}
	}
}
