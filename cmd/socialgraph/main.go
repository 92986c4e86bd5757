// Command socialgraph runs the analytics queries against a snapshot file and
// seeds DynamoDB tables from one.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
