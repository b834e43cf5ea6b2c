package main

import (
	"os"
)

// Set via ldflags at release time.
var (
	commit  = "HEAD"
	version = "dev"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
