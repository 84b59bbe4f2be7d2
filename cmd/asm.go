package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chennnyl/asm-popola/internal/devola/asm"
)

// asmCmd compiles a source file and reports the resolved instruction
// count, or every diagnostic collected across the attempt.
var asmCmd = &cobra.Command{
	Use:   "asm `path/to/source`",
	Short: "compile a popola source file",
	Args:  cobra.ExactArgs(1),
	Run:   runAsm,
}

func runAsm(cmd *cobra.Command, args []string) {
	source := readSource(args[0])

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

	fmt.Printf("compiled %d instructions\n", len(program.Instructions))
}
