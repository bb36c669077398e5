// Locate prints the current location of this machine.
//
// Without a subcommand it loads the positioning client, sets the API key,
// performs one location query and prints "lat, lng +/-hpe m". The watch
// subcommand publishes locations to an MQTT broker on an interval.
//
// Usage:
//
//	locate [flags]
//	locate watch [flags]
//	locate version
package main

import (
	"fmt"
	"os"
)

// exitCode is set by commands whose exit status carries a result code.
var exitCode int

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
