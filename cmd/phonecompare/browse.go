package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/phonecompare/internal/tui"
)

func newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, filter and compare phones interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			opts := []tui.Option{tui.WithDebounceInterval(s.cfg.DebounceInterval())}
			if markdownStyle != "" {
				opts = append(opts, tui.WithMarkdownStyle(markdownStyle))
			}
			if err := tui.Run(cmd.Context(), s.app, opts...); err != nil {
				return fmt.Errorf("tui.Run() > %w", err)
			}
			return nil
		},
	}
}
