package main

import (
	"os"

	"github.com/goplus/gbindgen/cmd/gbindgen/internal"
)

func main() {
	os.Exit(internal.Execute())
}
