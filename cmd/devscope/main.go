package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/syedafeezu/DevScope/internal/config"
	"github.com/syedafeezu/DevScope/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "devscope",
		Usage:                  "Index a source tree and answer ranked keyword queries",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON where supported",
			},
		},
		Commands: []*cli.Command{
			indexCommand(),
			searchCommand(),
			watchCommand(),
			statsCommand(),
			suggestCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the base configuration for a command: the defaults
// overlaid with the config file under the root (if any). Command-specific
// flags such as --workers or --limit are applied by the caller. The root
// comes from the positional argument when the command takes one,
// otherwise from --root, otherwise the working directory.
func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	if root == "" {
		root = c.String("root")
	}
	if root == "" {
		root = "."
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
