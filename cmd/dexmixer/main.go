/*
dexmixer (Entry Point)

dexmixer renames the classes of a compiled application into one flat
package of invisible names, replaces string constants and strips debug
metadata, keeping every reference between classes consistent.
*/
package main

import (
	"os"

	"github.com/whit3rabbit/dexmixer/cmd/dexmixer/cmd"
)

// main is the entry point of the application.
func main() {
	os.Exit(cmd.Main())
}
