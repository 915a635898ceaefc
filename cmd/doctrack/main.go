package main

import (
	"os"

	"github.com/epc-forge/doctrack/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
