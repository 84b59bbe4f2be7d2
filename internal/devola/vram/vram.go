// Package vram is the C6 component: a typed, zero-copy view over the
// VM's VRAM byte range (palettes, tilemaps, backgrounds, sprites). All
// region offsets below are derived from mem.VRAMBase and the region
// sizes, never hardcoded, so that changing a count or element size
// propagates without touching the accessors.
package vram

import "github.com/chennnyl/asm-popola/internal/devola/mem"

// ScreenWidth and ScreenHeight are the fixed framebuffer dimensions.
const (
	ScreenWidth  = 256
	ScreenHeight = 224
)

const (
	ColorSize      = 2 // bytes per RGB15 color
	PaletteLength  = 16
	PaletteSize    = ColorSize * PaletteLength
	PaletteCount   = 8
	TileLength     = 8
	TileSize       = TileLength * TileLength
	TilemapLength  = 16 // 16x16 tiles per tilemap
	TilemapSize    = TileSize * TilemapLength * TilemapLength
	TilemapCount   = 2
	BGWidth        = ScreenWidth / TileLength
	BGHeight       = ScreenHeight / TileLength
	BackgroundSize = BGWidth * BGHeight
	BackgroundCount = 4
	SpriteSize     = 5
	SpriteCount    = 128
)

// PaletteStart, TilemapStart, BackgroundStart, and SpriteStart are the
// absolute VRAM offsets of each region, each computed from the one
// before it rather than written as literals.
var (
	PaletteStart    = mem.VRAMBase
	TilemapStart    = PaletteStart + uint16(PaletteSize*PaletteCount)
	BackgroundStart = TilemapStart + uint16(TilemapSize*TilemapCount)
	SpriteStart     = BackgroundStart + uint16(BackgroundSize*BackgroundCount)
)

// SpriteSizeCode is the 2-bit size field of a sprite's properties byte.
type SpriteSizeCode byte

const (
	Size8 SpriteSizeCode = iota
	Size16
	Size32
	Size64
)

// Pitch returns the sprite's width/height in pixels.
func (s SpriteSizeCode) Pitch() int {
	switch s {
	case Size8:
		return 8
	case Size16:
		return 16
	case Size32:
		return 32
	default:
		return 64
	}
}

func spriteSizeFromCode(v byte) SpriteSizeCode {
	switch v & 0b11 {
	case 0:
		return Size8
	case 1:
		return Size16
	case 2:
		return Size32
	default:
		return Size64
	}
}

// Palette is 16 RGB15 colors decoded to 8-bit RGB.
type Palette struct {
	Colors [PaletteLength]Color
}

// Color is an 8-bit-per-channel, fully opaque color.
type Color struct {
	R, G, B byte
}

// Tile is an 8x8 grid of palette indices, row-major.
type Tile struct {
	Pixels [TileSize]byte
}

// Tilemap is a 16x16 grid of tiles.
type Tilemap struct {
	Tiles [TilemapLength * TilemapLength]Tile
}

// Background is a grid of tile indices sized to the screen in 8-pixel
// units. Not composited by raster.Draw, which draws only sprites.
type Background struct {
	Tiles [BackgroundSize]byte
}

// SpriteProperties is the decoded form of a sprite's properties byte:
// `T SS PPP RR` from MSB to LSB (bit 7 tilemap, bits 6-5 size code,
// bits 4-2 palette, bits 1-0 priority).
type SpriteProperties struct {
	TilemapIndex byte
	Size         SpriteSizeCode
	PaletteIndex byte
	Priority     byte
}

// DecodeSpriteProperties unpacks a properties byte.
func DecodeSpriteProperties(b byte) SpriteProperties {
	return SpriteProperties{
		TilemapIndex: b >> 7,
		Size:         spriteSizeFromCode(b >> 5),
		PaletteIndex: (b >> 2) & 0b111,
		Priority:     b & 0b11,
	}
}

// Encode packs p back into a single byte. Round-trips with
// DecodeSpriteProperties for every valid field combination.
func (p SpriteProperties) Encode() byte {
	var sizeCode byte
	switch p.Size {
	case Size8:
		sizeCode = 0
	case Size16:
		sizeCode = 1
	case Size32:
		sizeCode = 2
	default:
		sizeCode = 3
	}
	return (p.TilemapIndex&0b1)<<7 | (sizeCode&0b11)<<5 | (p.PaletteIndex&0b111)<<2 | (p.Priority & 0b11)
}

// Sprite is a positioned, palettized rectangle drawn from a tilemap.
type Sprite struct {
	Properties SpriteProperties
	X, Y       byte
	GfxStart   byte
	Info       byte
}

// Enabled reports whether the sprite's info bit 0 is set.
func (s Sprite) Enabled() bool { return s.Info&0b1 != 0 }

func decodeSprite(data []byte) Sprite {
	return Sprite{
		Properties: DecodeSpriteProperties(data[0]),
		X:          data[1],
		Y:          data[2],
		GfxStart:   data[3],
		Info:       data[4],
	}
}

// RGB15ToColor decodes a big-endian `0rrrrrgggggbbbbb` word, scaling
// each 5-bit channel to 8 bits by multiplying by 8.
func RGB15ToColor(w uint16) Color {
	return Color{
		R: 8 * byte(w>>10&0x1F),
		G: 8 * byte(w>>5&0x1F),
		B: 8 * byte(w&0x1F),
	}
}

// ColorToRGB15 is the inverse of RGB15ToColor; the round trip loses the
// low three bits of each channel by design.
func ColorToRGB15(c Color) uint16 {
	return uint16(c.R/8)<<10 | uint16(c.G/8)<<5 | uint16(c.B/8)
}

// View is a read-only, zero-copy interpretation of a Memory's VRAM
// range. It must not be retained across a mutating call to the
// underlying Memory.
type View struct {
	mem *mem.Memory
}

// NewView wraps m for VRAM interpretation.
func NewView(m *mem.Memory) *View {
	return &View{mem: m}
}

func (v *View) region(start uint16, elementSize, index int) []byte {
	offset := start + uint16(elementSize*index)
	return v.mem.Slice(offset, uint16(elementSize))
}

// Palette decodes the i'th palette (0..PaletteCount).
func (v *View) Palette(i int) Palette {
	data := v.region(PaletteStart, PaletteSize, i)
	var p Palette
	for idx := 0; idx < PaletteLength; idx++ {
		hi, lo := data[idx*2], data[idx*2+1]
		p.Colors[idx] = RGB15ToColor(mem.BuildWord(hi, lo))
	}
	return p
}

// Tilemap decodes the i'th tilemap (0..TilemapCount).
func (v *View) Tilemap(i int) Tilemap {
	data := v.region(TilemapStart, TilemapSize, i)
	var tm Tilemap
	for idx := range tm.Tiles {
		copy(tm.Tiles[idx].Pixels[:], data[idx*TileSize:(idx+1)*TileSize])
	}
	return tm
}

// Background decodes the i'th background (0..BackgroundCount).
func (v *View) Background(i int) Background {
	data := v.region(BackgroundStart, BackgroundSize, i)
	var bg Background
	copy(bg.Tiles[:], data)
	return bg
}

// Sprite decodes the i'th sprite record (0..SpriteCount).
func (v *View) Sprite(i int) Sprite {
	return decodeSprite(v.region(SpriteStart, SpriteSize, i))
}
