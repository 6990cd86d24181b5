package main

import (
	"fmt"
	"os"

	"cpxfetch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		code := cmd.ExitCode(err)
		if code == 1 {
			// Pipeline failures already printed their localized line.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}
