package main

import (
	"os"

	"github.com/DougMackenzie/energy-optimizer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
