package main

import (
	"os"

	"github.com/orkestra-ventures/orkestra/internal/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
