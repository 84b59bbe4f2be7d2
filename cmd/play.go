package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/cobra"

	"github.com/chennnyl/asm-popola/internal/devola/raster"
	"github.com/chennnyl/asm-popola/internal/devola/stdlib"
	"github.com/chennnyl/asm-popola/internal/devola/vm"
	"github.com/chennnyl/asm-popola/internal/devola/vram"
	"github.com/chennnyl/asm-popola/internal/display"
)

const framesPerSecond = 60

var playSourcePath string

// playCmd compiles and runs a program while driving a live window.
var playCmd = &cobra.Command{
	Use:   "play `path/to/source`",
	Short: "compile and run a popola program in a window",
	Args:  cobra.ExactArgs(1),
	Run:   runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	playSourcePath = args[0]
	pixelgl.Run(playMain)
}

func playMain() {
	program := mustCompile(playSourcePath)

	v := vm.New(program.Instructions, program.Symbols)
	stdlib.Install(v, nil)

	win, err := display.NewWindow("popola")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	view := vram.NewView(v.Mem)
	fb := make([]byte, raster.FramebufferSize)

	ticker := time.NewTicker(time.Second / framesPerSecond)
	defer ticker.Stop()

	for range ticker.C {
		if win.Closed() {
			fmt.Println("window closed, shutting down")
			return
		}

		if !v.Done() {
			if err := v.Step(); err != nil {
				fmt.Printf("run error: %v\n", err)
				return
			}
		}

		raster.Draw(view, fb)
		win.Blit(fb)
	}
}
