package raster

import (
	"image"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	"github.com/chennnyl/asm-popola/internal/devola/vram"
)

// ImportPNG decodes a PNG spritesheet, resamples it with nearest-
// neighbor scaling onto a square of tilePitch*vram.TileLength pixels
// per side (tilePitch x tilePitch tiles), and quantizes each resulting pixel to the nearest color in
// pal. The returned bytes are row-major tile data (vram.TileSize bytes
// per tile, tilePitch*tilePitch tiles, tile-major then row-major within
// each tile) ready to hand to stdlib.MemSet against a tilemap's tile
// region.
func ImportPNG(r io.Reader, tilePitch int, pal vram.Palette) ([]byte, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, err
	}

	side := tilePitch * vram.TileLength
	dstRect := image.Rect(0, 0, side, side)
	dst := image.NewRGBA(dstRect)
	draw.NearestNeighbor.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)

	out := make([]byte, tilePitch*tilePitch*vram.TileSize)
	for ty := 0; ty < tilePitch; ty++ {
		for tx := 0; tx < tilePitch; tx++ {
			tileIndex := ty*tilePitch + tx
			base := tileIndex * vram.TileSize
			for py := 0; py < vram.TileLength; py++ {
				for px := 0; px < vram.TileLength; px++ {
					x := tx*vram.TileLength + px
					y := ty*vram.TileLength + py
					r32, g32, b32, _ := dst.At(x, y).RGBA()
					c := vram.Color{R: byte(r32 >> 8), G: byte(g32 >> 8), B: byte(b32 >> 8)}
					out[base+py*vram.TileLength+px] = nearestPaletteIndex(pal, c)
				}
			}
		}
	}
	return out, nil
}

func nearestPaletteIndex(pal vram.Palette, c vram.Color) byte {
	best := 0
	bestDist := math.MaxInt64
	for i, pc := range pal.Colors {
		dist := colorDistance(c, pc)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return byte(best)
}

func colorDistance(a, b vram.Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
