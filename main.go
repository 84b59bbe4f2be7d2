package main

import "github.com/chennnyl/asm-popola/cmd"

func main() {
	cmd.Execute()
}
