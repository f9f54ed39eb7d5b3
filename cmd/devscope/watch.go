package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/syedafeezu/DevScope/internal/index"
	"github.com/syedafeezu/DevScope/internal/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Index a directory tree and rebuild whenever it changes",
		ArgsUsage: "<path>",
		Action:    runWatch,
	}
}

func runWatch(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: devscope watch <path>")
	}
	root := c.Args().First()

	cfg, err := loadConfig(c, root)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	rebuild := func() error {
		stats, err := index.Build(cfg, index.BuildOptions{
			Warnf: func(format string, args ...interface{}) {
				fmt.Fprintf(os.Stderr, format+"\n", args...)
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rebuilt: %d documents, %d terms in %.2fs\n",
			stats.Documents, stats.Terms, stats.Elapsed.Seconds())
		return nil
	}

	// Initial build before watching so queries work immediately.
	if err := rebuild(); err != nil {
		return cli.Exit(fmt.Sprintf("initial build failed: %v", err), 1)
	}

	w, err := watch.New(cfg, rebuild)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create watcher: %v", err), 1)
	}
	w.SetErrorHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})
	if err := w.Start(); err != nil {
		return cli.Exit(fmt.Sprintf("failed to start watcher: %v", err), 1)
	}
	defer w.Stop()

	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", cfg.Project.Root)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Fprintln(os.Stderr, "Stopping.")
	return nil
}
