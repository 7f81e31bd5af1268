// Where: cli/cmd/tlaloc/main.go
// What: CLI entrypoint.
// Why: Execute tlaloc commands with configured dependencies.
package main

import (
	"os"

	"github.com/tlaloc-dev/tlaloc/cli/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], buildDependencies()))
}
