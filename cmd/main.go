package main

import (
	"os"

	"github.com/pincite/pincite/cmd/pincite"
)

func main() {
	if err := pincite.Execute(); err != nil {
		os.Exit(1)
	}
}
