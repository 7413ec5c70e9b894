// Command reshape applies a modifier chain to a file.
//
//	reshape apply --chain "BASE64>>Envelope(SOAP_1_1)" --in report.csv --out report.xml
//	reshape aliases
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
