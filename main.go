package main

import (
	"os"

	"github.com/parthgoyal01/aurora/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
