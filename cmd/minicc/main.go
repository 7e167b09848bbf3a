// Command minicc checks programs written in a small C subset: it tokenizes,
// parses and type-checks a single file and reports the first problem found.
package main

import (
	"os"

	"minicc/cmd/minicc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
