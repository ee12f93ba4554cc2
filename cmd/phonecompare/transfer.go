package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/phonecompare/internal/storage"
)

func newExportCommand() *cobra.Command {
	format := storage.FormatJSON
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every phone, including your own, to a JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			if dir == "" {
				dir = s.cfg.Outputs.ExportDirectory
			}
			_, result, err := s.app.Export(dir, format)
			if err != nil {
				printNotice(cmd.ErrOrStderr(), result.Notice)
				return fmt.Errorf("app.Export() > %w", err)
			}
			printNotice(cmd.OutOrStdout(), result.Notice)
			return nil
		},
	}
	cmd.Flags().Var(&format, "format", "export format, json or yaml")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write into, the configured export directory by default")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import phones from an exported JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			imported, result, err := s.app.ImportFile(cmd.Context(), args[0])
			if err != nil {
				printNotice(cmd.ErrOrStderr(), result.Notice)
				return fmt.Errorf("app.ImportFile(%s) > %w", args[0], err)
			}
			printNotice(cmd.OutOrStdout(), result.Notice)
			if imported.UserNew > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of them are your own phones\n", imported.UserNew)
			}
			return nil
		},
	}
}
