package main

import (
	"github.com/swagftw/minichain/pkg/cli"
)

func main() {
	cli.Execute()
}
