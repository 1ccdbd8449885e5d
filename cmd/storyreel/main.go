package main

import (
	"os"

	"github.com/ivlev/storyreel/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
