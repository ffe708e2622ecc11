package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/casper-ecosystem/keys-manager/cmd/keysmanager/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("failure when running keysmanager", "err", err)
		os.Exit(1)
	}
}
