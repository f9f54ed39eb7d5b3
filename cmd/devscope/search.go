package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/syedafeezu/DevScope/internal/display"
	devserr "github.com/syedafeezu/DevScope/internal/errors"
	"github.com/syedafeezu/DevScope/internal/search"
	"github.com/syedafeezu/DevScope/pkg/pathutil"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Run a ranked keyword query against the index",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (overrides config)",
			},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: devscope search <query...>")
	}
	query := strings.Join(c.Args().Slice(), " ")

	cfg, err := loadConfig(c, "")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("limit") && c.Int("limit") > 0 {
		cfg.Search.MaxResults = c.Int("limit")
	}

	res, err := search.Run(query, cfg)
	if err != nil {
		if errors.Is(err, devserr.ErrMissingIndex) {
			fmt.Println("Index not found.")
			return nil
		}
		return cli.Exit(fmt.Sprintf("search failed: %v", err), 1)
	}

	// Snippets need the stored paths; relativize only for display.
	cwd, _ := os.Getwd()
	for i := range res.Hits {
		res.Hits[i].Path = pathutil.ToRelative(res.Hits[i].Path, cwd)
	}

	if c.Bool("json") {
		return display.WriteResultsJSON(os.Stdout, res)
	}
	display.PrintResults(os.Stdout, res)
	return nil
}
