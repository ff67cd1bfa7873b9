package main

import (
	"os"

	"github.com/shakams434/sovereign-keychain/cmd/keychain/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
