package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chennnyl/asm-popola/internal/devola/raster"
	"github.com/chennnyl/asm-popola/internal/devola/vram"
)

var png2tilesPitch int

// png2tilesCmd converts a PNG spritesheet into tile bytes suitable for
// loading into a tilemap's VRAM region.
var png2tilesCmd = &cobra.Command{
	Use:   "png2tiles `image.png` `out.bin`",
	Short: "convert a PNG spritesheet into tile bytes",
	Args:  cobra.ExactArgs(2),
	Run:   runPNG2Tiles,
}

func init() {
	png2tilesCmd.Flags().IntVar(&png2tilesPitch, "tile-pitch", 1, "tiles per side of the imported grid")
}

func runPNG2Tiles(cmd *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Printf("error opening %s: %v\n", args[0], err)
		os.Exit(1)
	}
	defer f.Close()

	// grayscale ramp; a caller building a real image should supply
	// their own palette and import via the raster package directly
	var pal vram.Palette
	for i := range pal.Colors {
		shade := byte(i * 255 / (vram.PaletteLength - 1))
		pal.Colors[i] = vram.Color{R: shade, G: shade, B: shade}
	}

	data, err := raster.ImportPNG(f, png2tilesPitch, pal)
	if err != nil {
		fmt.Printf("error importing %s: %v\n", args[0], err)
		os.Exit(1)
	}

	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		fmt.Printf("error writing %s: %v\n", args[1], err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d tile bytes to %s\n", len(data), args[1])
}
