// Where: cli/internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
	"github.com/tlaloc-dev/tlaloc/cli/internal/ports"
	"github.com/tlaloc-dev/tlaloc/cli/internal/version"
)

// ClientFactory opens the artifact store and stack submitter for a
// validated profile.
type ClientFactory func(ctx context.Context, profile *config.Profile) (ports.ArtifactStore, ports.StackSubmitter, error)

// Dependencies holds all injected dependencies required for CLI command
// execution. This structure enables dependency injection for testing and
// allows swapping implementations of various subsystems.
type Dependencies struct {
	Out       io.Writer
	Now       func() time.Time
	Extractor ports.Extractor
	Packager  ports.ArtifactPackager
	Docs      ports.DocsGenerator
	Clients   ClientFactory
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Config  string `short:"c" default:"tlaloc.yml" help:"Path to profile file"`
	EnvFile string `name:"env-file" help:"Path to .env file"`

	// Profile overrides. A non-empty flag wins over the file value.
	Path     string `help:"Source directory containing the API/ tree"`
	Name     string `help:"API name"`
	Deployer string `help:"Deployer identity used for resource naming"`
	Profile  string `help:"AWS shared config profile"`
	Region   string `help:"AWS region"`
	Bucket   string `help:"Deployment bucket"`
	Stage    string `help:"API Gateway stage name"`
	Stack    string `help:"CloudFormation stack name"`

	Build   BuildCmd   `cmd:"" help:"Package endpoints and render templates"`
	Deploy  DeployCmd  `cmd:"" help:"Build, upload, and submit the stack"`
	Docs    DocsCmd    `cmd:"" help:"Generate the OpenAPI document"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type BuildCmd struct {
	Docs    bool `help:"Also generate the OpenAPI document"`
	Workers int  `help:"Packaging worker count"`
}

type DeployCmd struct {
	Docs    bool          `help:"Also generate the OpenAPI document"`
	Workers int           `help:"Packaging worker count"`
	Timeout time.Duration `default:"15m" help:"Overall deadline for uploads and stack submission"`
}

type DocsCmd struct{}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution. It parses the
// command-line arguments, identifies the requested command, and
// dispatches to the appropriate handler. Returns 0 on success, 1 on
// error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Build serverless APIs from a directory convention."),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	// Load environment file if provided or if .env exists in current directory
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
		}
	} else {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
			}
		}
	}

	switch ctx.Command() {
	case "build":
		return runBuild(cli, deps, out)
	case "deploy":
		return runDeploy(cli, deps, out)
	case "docs":
		return runDocs(cli, deps, out)
	case "version":
		return runVersion(out)
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}
