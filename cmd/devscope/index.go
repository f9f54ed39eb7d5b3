package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/syedafeezu/DevScope/internal/index"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Build the index for a directory tree",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Tokenizer workers (0 = auto, 1 = sequential)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress per-file progress output",
			},
		},
		Action: runIndex,
	}
}

func runIndex(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: devscope index <path>")
	}
	root := c.Args().First()

	cfg, err := loadConfig(c, root)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("workers") {
		cfg.Index.Workers = c.Int("workers")
	}

	opts := index.BuildOptions{
		Warnf: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
	if !c.Bool("quiet") {
		opts.Progress = func(indexed int, path string) {
			fmt.Fprintf(os.Stderr, "\rIndexed %d files...", indexed)
		}
	}

	stats, err := index.Build(cfg, opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("indexing failed: %v", err), 1)
	}
	if !c.Bool("quiet") {
		fmt.Fprintln(os.Stderr)
	}

	fmt.Printf("Indexing complete in %.2fs.\n", stats.Elapsed.Seconds())
	fmt.Printf("  %d documents (%d code, %d log), %d terms, %d postings\n",
		stats.Documents, stats.CodeDocs, stats.LogDocs, stats.Terms, stats.Postings)
	if stats.Skipped > 0 {
		fmt.Printf("  %d files skipped\n", stats.Skipped)
	}
	return nil
}
