// Where: cli/internal/app/command_context.go
// What: Shared profile resolution for CLI commands.
// Why: Reduce duplicated config loading and merging across commands.
package app

import (
	"fmt"
	"io"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/fileops"
)

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}

// resolveProfile loads the profile file when it exists, merges the CLI
// flag overrides on top, and validates the result.
func resolveProfile(cli CLI, deps Dependencies) (*config.Profile, error) {
	var opts config.Options
	if fileops.FileExists(cli.Config) {
		loaded, err := config.LoadOptions(cli.Config)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	overrides := config.Options{
		Path:     cli.Path,
		Name:     cli.Name,
		Deployer: cli.Deployer,
		Profile:  cli.Profile,
		Region:   cli.Region,
		Bucket:   cli.Bucket,
		Stage:    cli.Stage,
		Stack:    cli.Stack,
	}
	merged := opts.Merge(overrides)

	return config.NewProfile(merged, deps.Now)
}
