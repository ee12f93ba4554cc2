package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/catalog"
	"github.com/at-ishikawa/phonecompare/internal/imagecache"
)

func newImagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "images <id>",
		Short: "Download the detail images of a phone for offline viewing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			record, ok := s.app.Catalog().Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", catalog.ErrNotFound, args[0])
			}

			cache := imagecache.New(s.cfg.Outputs.ImageDirectory, s.cfg.Dataset.Timeout())
			entries, err := cache.Download(cmd.Context(), record)
			for _, entry := range entries {
				state := "cached"
				if entry.Downloaded {
					state = "downloaded"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, entry.Path)
			}
			if err != nil {
				printNotice(cmd.ErrOrStderr(), app.Notice{Level: app.LevelWarning, Message: "Some images could not be downloaded"})
				return fmt.Errorf("cache.Download(%s) > %w", record.ID, err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no detail images\n", record.Title())
			}
			return nil
		},
	}
}
