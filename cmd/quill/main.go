package main

import (
	"os"

	"github.com/dshills/quill/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
