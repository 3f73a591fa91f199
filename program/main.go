// catalog browses, sorts and filters an art catalog in the terminal.
package main

import (
	"os"

	"github.com/keilerkonzept/catalog-browser/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
