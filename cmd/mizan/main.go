// mizan harvests packaged-food products and cleans them into a catalog.
package main

import (
	"fmt"
	"os"

	"mizan/cmd/mizan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
