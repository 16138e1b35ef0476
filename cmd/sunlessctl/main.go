// Command sunlessctl inspects and repairs the state the Sunless desktop app
// keeps on disk and in the OS keyring.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
