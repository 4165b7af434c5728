package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/sokung536/s-social-feed/config"
	"github.com/sokung536/s-social-feed/internal/core/domain"
)

type pageDump struct {
	Page  int                `json:"page"`
	Items []*domain.FeedItem `json:"items"`
}

func newPagesCmd() *cobra.Command {
	var from, count int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Fetch and synthesize feed pages, print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if from < 1 || count < 1 {
				return errors.New("--from and --count must be >= 1")
			}
			cfg := config.Load()
			initLogger(cfg)
			return dumpPages(cmd.Context(), newCore(cfg), from, count)
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "first page number (1-based)")
	cmd.Flags().IntVar(&count, "count", 1, "number of pages")
	return cmd
}

func dumpPages(ctx context.Context, c *core, from, count int) error {
	directory, err := c.directory.Get(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for page := from; page < from+count; page++ {
		posts, err := c.pages.FetchPage(ctx, page)
		if err != nil {
			return err
		}
		if err := enc.Encode(pageDump{Page: page, Items: c.synth.SynthesizePage(posts, directory)}); err != nil {
			return err
		}
	}
	return nil
}
