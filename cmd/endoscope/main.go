// main is the entry point for the endoscope CLI.
package main

import (
	"github.com/endora-app/endoscope/cmd"
	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
