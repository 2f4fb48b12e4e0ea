// Command linktask builds entity-linking annotation tasks from NER mentions.
package main

import (
	"os"

	"github.com/custodia-labs/linktask/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
