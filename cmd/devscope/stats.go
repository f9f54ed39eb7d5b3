package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/syedafeezu/DevScope/internal/display"
	"github.com/syedafeezu/DevScope/internal/index"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show index statistics and verify artifact digests",
		Action: runStats,
	}
}

func runStats(c *cli.Context) error {
	cfg, err := loadConfig(c, "")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	dir := cfg.IndexDir()
	manifest, err := index.LoadManifest(dir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("no readable index at %s: %v", dir, err), 1)
	}

	mismatched, err := index.VerifyArtifacts(dir, manifest)
	if err != nil {
		return cli.Exit(fmt.Sprintf("verification failed: %v", err), 1)
	}

	st := &display.IndexStats{Dir: dir, Manifest: manifest, Mismatched: mismatched}
	if c.Bool("json") {
		return display.WriteStatsJSON(os.Stdout, st)
	}
	display.PrintStats(os.Stdout, st)
	return nil
}
