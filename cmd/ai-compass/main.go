package main

import (
	"os"

	"github.com/futig/ai-compass/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
