// Package version provides version information for the editor binary,
// including the Live Share wire protocol revision for diagnostics.
package version

import (
	"fmt"
	"os"
)

const (
	// Name of the program.
	Name string = "liveedit"
	// Number is the program release version.
	Number string = "1.0.0"
	// ProtocolCompat is the Live Share wire protocol version. It only
	// appears in String(); no frame carries it, so host and joiner never
	// compare it.
	ProtocolCompat string = "1.0"
)

// String returns a plain text version summary suitable for --version and
// diagnostic logging.
func String() string {
	return fmt.Sprintf("%s %s (protocol %s)", Name, Number, ProtocolCompat)
}

// Print writes the version string to stdout.
func Print() {
	fmt.Println(String())
}

// PrintAndExit prints the version and exits 0.
func PrintAndExit() {
	Print()
	os.Exit(0)
}
