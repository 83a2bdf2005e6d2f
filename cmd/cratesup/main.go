package main

import (
	"os"

	"github.com/cratesup/cratesup/pkg/cratesup"
)

func main() {
	os.Exit(cratesup.Execute())
}
