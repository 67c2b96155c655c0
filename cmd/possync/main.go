// Command possync synchronises POS sales data into a local store.
package main

import (
	"fmt"
	"os"

	"github.com/tapsight-labs/possync/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
