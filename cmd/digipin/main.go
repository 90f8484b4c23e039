package main

import (
	"os"

	"github.com/samirrijal/digipin/internal/adapters/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
