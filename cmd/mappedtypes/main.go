// Command mappedtypes derives and exercises mapped DTO types.
package main

import (
	"os"

	"github.com/goliatone/go-mappedtypes/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
