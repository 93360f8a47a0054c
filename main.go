package main

import (
	"os"

	"github.com/plenohq/plenosite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
