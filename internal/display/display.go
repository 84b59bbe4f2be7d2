// Package display is the host window driver: it opens a pixelgl
// window and blits the rasterizer's RGBA framebuffer into it once per
// redraw. It is an external driver only — nothing in internal/devola
// imports it, and it never runs the VM or the rasterizer itself.
package display

import (
	"fmt"
	"image/color"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/chennnyl/asm-popola/internal/devola/vram"
)

const windowScale = 3

// Window wraps a pixelgl window sized to a fixed multiple of the
// console's screen resolution.
type Window struct {
	*pixelgl.Window
	picture *pixel.PictureData
}

// NewWindow opens a window titled title, scaled windowScale times the
// console's native resolution.
func NewWindow(title string) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, vram.ScreenWidth*windowScale, vram.ScreenHeight*windowScale),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating new window: %w", err)
	}
	return &Window{
		Window: w,
		picture: &pixel.PictureData{
			Pix:    make([]color.RGBA, vram.ScreenWidth*vram.ScreenHeight),
			Stride: vram.ScreenWidth,
			Rect:   pixel.R(0, 0, vram.ScreenWidth, vram.ScreenHeight),
		},
	}, nil
}

// Blit uploads fb (raster.FramebufferSize bytes, row-major RGBA, row 0
// at the top) into the window's picture and draws it scaled to fill
// the window.
func (w *Window) Blit(fb []byte) {
	for row := 0; row < vram.ScreenHeight; row++ {
		// pixel's PictureData is Y-up; the framebuffer is row-major
		// top-down, so the source row is flipped here.
		srcRow := vram.ScreenHeight - 1 - row
		for col := 0; col < vram.ScreenWidth; col++ {
			off := (srcRow*vram.ScreenWidth + col) * 4
			w.picture.Pix[row*vram.ScreenWidth+col] = color.RGBA{
				R: fb[off+0], G: fb[off+1], B: fb[off+2], A: fb[off+3],
			}
		}
	}

	w.Clear(colornames.Black)
	sprite := pixel.NewSprite(w.picture, w.picture.Bounds())
	bounds := w.Bounds()
	center := pixel.V(bounds.W()/2, bounds.H()/2)
	sprite.Draw(w, pixel.IM.Scaled(pixel.ZV, windowScale).Moved(center))
	w.Update()
}
