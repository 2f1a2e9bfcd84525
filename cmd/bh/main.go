package main

import (
	"os"

	"github.com/prajeetp/blackhole-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
