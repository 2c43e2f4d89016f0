package main

import (
	"fmt"
	"os"

	"github.com/kilianp07/spaplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spaplan:", err)
		os.Exit(1)
	}
}
