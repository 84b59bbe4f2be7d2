// Package raster is the C7 component: it composites a vram.View into
// an RGBA framebuffer, and separately offers a PNG import tool for
// building VRAM tile images from ordinary spritesheets.
package raster

import (
	"github.com/chennnyl/asm-popola/internal/devola/vram"
)

// RGB15ToColor and ColorToRGB15 are re-exported here as the
// round-trip helpers; the conversion itself lives in vram since
// vram.View.Palette needs it to decode a raw VRAM palette record.
func RGB15ToColor(w uint16) vram.Color { return vram.RGB15ToColor(w) }
func ColorToRGB15(c vram.Color) uint16 { return vram.ColorToRGB15(c) }

// Palette is the quantization target for ImportPNG: the same 16-entry
// RGB15-resolution palette a VRAM image is built from.
type Palette = vram.Palette

// BytesPerPixel is the framebuffer's pixel stride: R, G, B, A.
const BytesPerPixel = 4

// FramebufferSize is the required length of the fb slice passed to Draw.
const FramebufferSize = vram.ScreenWidth * vram.ScreenHeight * BytesPerPixel

// Draw fills fb (row-major RGBA, vram.ScreenWidth x vram.ScreenHeight)
// with a solid background and then composites every enabled sprite in
// index order 0..vram.SpriteCount-1. Later sprites overwrite earlier
// ones at overlapping pixels; priority is decoded but not consulted,
// per the rasterizer's documented minimal compositing order.
// Out-of-bounds sprite pixels are clipped silently.
func Draw(view *vram.View, fb []byte) {
	fillBackground(fb)
	for i := 0; i < vram.SpriteCount; i++ {
		sprite := view.Sprite(i)
		if !sprite.Enabled() {
			continue
		}
		drawSprite(view, sprite, fb)
	}
}

func fillBackground(fb []byte) {
	for i := 0; i < len(fb); i += BytesPerPixel {
		fb[i+0] = 0
		fb[i+1] = 0
		fb[i+2] = 0
		fb[i+3] = 0xFF
	}
}

func drawSprite(view *vram.View, sprite vram.Sprite, fb []byte) {
	tilemap := view.Tilemap(int(sprite.Properties.TilemapIndex))
	palette := view.Palette(int(sprite.Properties.PaletteIndex))

	pitch := sprite.Properties.Size.Pitch()
	tilePitch := pitch / vram.TileLength
	tileCount := tilePitch * tilePitch

	for idx := 0; idx < tileCount; idx++ {
		tileIndex := int(sprite.GfxStart) + idx
		if tileIndex >= len(tilemap.Tiles) {
			continue
		}
		tile := tilemap.Tiles[tileIndex]

		tx, ty := idx%tilePitch, idx/tilePitch
		originX := int(sprite.X) + tx*vram.TileLength
		originY := int(sprite.Y) + ty*vram.TileLength

		for py := 0; py < vram.TileLength; py++ {
			screenY := originY + py
			if screenY < 0 || screenY >= vram.ScreenHeight {
				continue
			}
			for px := 0; px < vram.TileLength; px++ {
				screenX := originX + px
				if screenX < 0 || screenX >= vram.ScreenWidth {
					continue
				}
				paletteIndex := tile.Pixels[py*vram.TileLength+px]
				color := palette.Colors[paletteIndex]
				offset := (screenY*vram.ScreenWidth + screenX) * BytesPerPixel
				fb[offset+0] = color.R
				fb[offset+1] = color.G
				fb[offset+2] = color.B
				fb[offset+3] = 0xFF
			}
		}
	}
}
