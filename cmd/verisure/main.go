// Command verisure renders, serves and drives the certificate app pages.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "verisure:", err)
		os.Exit(1)
	}
}
