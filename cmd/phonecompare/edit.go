package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/catalog"
)

// bindFormFlags registers one flag per form field.
func bindFormFlags(flags *pflag.FlagSet, form *catalog.Form) {
	flags.StringVar(&form.Brand, "brand", "", "brand, required")
	flags.StringVar(&form.Model, "model", "", "model, required")
	flags.StringVar(&form.Series, "series", "", "series")
	flags.StringVar(&form.Category, "category", "", "category, the configured default category when empty")
	flags.StringVar(&form.ProcessorBrand, "processor-brand", "", "processor brand")
	flags.StringVar(&form.ProcessorModel, "processor-model", "", "processor model")
	flags.StringVar(&form.RAM, "ram", "", "RAM, e.g. 12GB")
	flags.StringVar(&form.Storage, "storage", "", "storage, e.g. 256GB")
	flags.StringVar(&form.DisplaySize, "display-size", "", "display size, e.g. 6.36 inch")
	flags.StringVar(&form.Resolution, "resolution", "", "display resolution")
	flags.StringVar(&form.RefreshRate, "refresh-rate", "", "display refresh rate")
	flags.StringVar(&form.RearCamera, "rear-camera", "", "rear camera")
	flags.StringVar(&form.FrontCamera, "front-camera", "", "front camera")
	flags.StringVar(&form.BatteryCapacity, "battery", "", "battery capacity")
	flags.StringVar(&form.Charging, "charging", "", "charging")
	flags.StringVar(&form.StartPrice, "price", "", "starting price in CNY")
	flags.StringVar(&form.ReleaseDate, "release-date", "", "release date")
	flags.StringVar(&form.Features, "features", "", "comma separated features")
	flags.StringVar(&form.Description, "description", "", "description")
}

func newAddCommand() *cobra.Command {
	var form catalog.Form
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a phone of your own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			record, result, err := s.app.Add(cmd.Context(), form)
			if err != nil {
				printNotice(cmd.ErrOrStderr(), result.Notice)
				return fmt.Errorf("app.Add() > %w", err)
			}
			printNotice(cmd.OutOrStdout(), result.Notice)
			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", record.ID)
			return nil
		},
	}
	bindFormFlags(cmd.Flags(), &form)
	return cmd
}

func newEditCommand() *cobra.Command {
	var form catalog.Form
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a phone. Fields that are not given keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			id := args[0]
			existing, ok := s.app.Catalog().Find(id)
			if !ok {
				printNotice(cmd.ErrOrStderr(), app.Notice{Level: app.LevelError, Message: fmt.Sprintf("Phone %s was not found", id)})
				return fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
			}
			if form.Brand == "" {
				form.Brand = existing.Brand
			}
			if form.Model == "" {
				form.Model = existing.Model
			}

			_, result, err := s.app.Update(cmd.Context(), id, form)
			if err != nil {
				printNotice(cmd.ErrOrStderr(), result.Notice)
				return fmt.Errorf("app.Update(%s) > %w", id, err)
			}
			printNotice(cmd.OutOrStdout(), result.Notice)
			return nil
		},
	}
	bindFormFlags(cmd.Flags(), &form)
	return cmd
}
