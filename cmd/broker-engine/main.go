package main

import (
	"os"

	"github.com/iwvelando/broker-engine/cmd/broker-engine/cmd"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		os.Exit(1)
	}
}
