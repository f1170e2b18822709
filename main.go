package main

import (
	"os"

	"github.com/abhisek/hintlab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
