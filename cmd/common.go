package cmd

import (
	"fmt"
	"os"
)

func readSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	return string(data)
}
