// Package main provides the tossfile command.
package main

import (
	"os"

	"github.com/leapstack-labs/tossfile/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
