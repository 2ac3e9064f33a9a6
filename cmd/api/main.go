package main

import (
	"github.com/swagftw/minichain/pkg/cli"
)

// main serves the HTTP API; flags are those of `minichain serve`.
func main() {
	cli.ExecuteServe()
}
