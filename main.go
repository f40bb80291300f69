package main

import (
	"os"

	"github.com/mkale/sparky/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
