// Command ulogdemo is a host process that configures the shared logger,
// hands it to collaborators and exercises every emission path.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
