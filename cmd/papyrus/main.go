// Command papyrus parses and syntax-checks Papyrus scripts.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pacer/papyrus/cmd/papyrus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// diagnostics are already on stdout
		if !errors.Is(err, cmd.ErrSyntaxErrors) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}
