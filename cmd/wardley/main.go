// Package main is the wardley command line tool. It runs the map analysis
// engine, the text extractor and version comparison against local files.
package main

import (
	"fmt"
	"os"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
