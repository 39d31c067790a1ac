// Command jsi runs ECMAScript 5 source files and expressions through
// github.com/cwbudde/go-jsi's embeddable interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-jsi/cmd/jsi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
