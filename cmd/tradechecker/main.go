package main

import (
	"os"

	"trade-checker-go/cmd/tradechecker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
