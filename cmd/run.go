package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chennnyl/asm-popola/internal/devola/asm"
	"github.com/chennnyl/asm-popola/internal/devola/mem"
	"github.com/chennnyl/asm-popola/internal/devola/stdlib"
	"github.com/chennnyl/asm-popola/internal/devola/vm"
)

var (
	runTrace    bool
	runVRAMDump string
)

// runCmd compiles and runs a program headless.
var runCmd = &cobra.Command{
	Use:   "run `path/to/source`",
	Short: "compile and run a popola program headless",
	Args:  cobra.ExactArgs(1),
	Run:   runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "print the Call/Return debug trace")
	runCmd.Flags().StringVar(&runVRAMDump, "vram-dump", "", "write the final VRAM bytes to this path")
}

func runRun(cmd *cobra.Command, args []string) {
	program := mustCompile(args[0])

	v := vm.New(program.Instructions, program.Symbols)
	stdlib.Install(v, nil)
	if runTrace {
		v.EnableTrace(os.Stdout)
	}

	if err := v.Run(context.Background()); err != nil {
		fmt.Printf("run error: %v\n", err)
		os.Exit(1)
	}

	if runVRAMDump != "" {
		dumpVRAM(v, runVRAMDump)
	}
}

func mustCompile(path string) *asm.Program {
	source := readSource(path)
	program, err := asm.Compile(source)
	if err != nil {
		if errs, ok := err.(asm.ErrorList); ok {
			for _, e := range errs {
				fmt.Println(e)
			}
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
	return program
}

func dumpVRAM(v *vm.VM, path string) {
	size := uint16(uint32(mem.Size) - uint32(mem.VRAMBase))
	data := v.Mem.Slice(mem.VRAMBase, size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Printf("error writing vram dump: %v\n", err)
		os.Exit(1)
	}
}
