package main

import (
	"os"

	"github.com/sknups/pkginit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
