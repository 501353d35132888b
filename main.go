// The main package for the bookpipeline executable.
package main

import (
	"github.com/libdata/bookpipeline/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
