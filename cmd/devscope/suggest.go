package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/syedafeezu/DevScope/internal/display"
	devserr "github.com/syedafeezu/DevScope/internal/errors"
	"github.com/syedafeezu/DevScope/internal/index"
	"github.com/syedafeezu/DevScope/internal/search"
)

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest lexicon terms similar to a possibly misspelled term",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of suggestions",
				Value:   5,
			},
		},
		Action: runSuggest,
	}
}

func runSuggest(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: devscope suggest <term>")
	}
	term := c.Args().First()

	cfg, err := loadConfig(c, "")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	r, err := index.Open(cfg.IndexDir())
	if err != nil {
		if errors.Is(err, devserr.ErrMissingIndex) {
			fmt.Println("Index not found.")
			return nil
		}
		return cli.Exit(err.Error(), 1)
	}
	defer r.Close()

	display.PrintSuggestions(os.Stdout, term, search.Suggest(r, term, c.Int("limit")))
	return nil
}
