package main

import (
	"os"

	"github.com/lnrcli/lnr/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
