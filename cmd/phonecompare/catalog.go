package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/filter"
	"github.com/at-ishikawa/phonecompare/internal/pdf"
	"github.com/at-ishikawa/phonecompare/internal/render"
	"github.com/at-ishikawa/phonecompare/internal/selection"
)

const terminalWidth = 100

func newListCommand() *cobra.Command {
	var query filter.Query
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List phones matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			view := s.app.SetQuery(query).View
			if asCSV {
				return writeCardsCSV(cmd.OutOrStdout(), view.Cards)
			}
			printCards(cmd.OutOrStdout(), view)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&query.Search, "search", "s", "", "text matched against brand, model, series and processor")
	flags.StringVar(&query.Brand, "brand", "", "exact brand")
	flags.Var(&query.Tier, "price", fmt.Sprintf("price tier, one of %s, %s or %s", filter.TierLow, filter.TierMid, filter.TierHigh))
	flags.StringVar(&query.Category, "category", "", "exact category")
	flags.BoolVar(&asCSV, "csv", false, "print the phones as CSV with a header row")
	return cmd
}

type cardRow struct {
	ID          string `csv:"id"`
	Brand       string `csv:"brand"`
	Model       string `csv:"model"`
	Series      string `csv:"series"`
	Category    string `csv:"category"`
	Processor   string `csv:"processor"`
	RAM         string `csv:"ram"`
	DisplaySize string `csv:"display_size"`
	RearCamera  string `csv:"rear_camera"`
	Price       string `csv:"price"`
	Features    string `csv:"features"`
}

func writeCardsCSV(w io.Writer, cards []render.Card) error {
	csvWriter := csv.NewWriter(w)
	enc := csvutil.NewEncoder(csvWriter)
	if len(cards) == 0 {
		if err := enc.EncodeHeader(cardRow{}); err != nil {
			return fmt.Errorf("enc.EncodeHeader > %w", err)
		}
	}
	for _, card := range cards {
		price, _, _ := strings.Cut(card.Price, "\n")
		if err := enc.Encode(cardRow{
			ID:          card.ID,
			Brand:       card.Brand,
			Model:       card.Model,
			Series:      card.Series,
			Category:    card.Category,
			Processor:   card.Processor,
			RAM:         card.RAM,
			DisplaySize: card.DisplaySize,
			RearCamera:  card.RearCamera,
			Price:       price,
			Features:    strings.Join(card.Features, ", "),
		}); err != nil {
			return fmt.Errorf("enc.Encode(%s) > %w", card.ID, err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func printCards(w io.Writer, view app.View) {
	if len(view.Cards) == 0 {
		fmt.Fprintln(w, "No phones match the filters.")
	}
	idStyle := color.New(color.Bold)
	for _, card := range view.Cards {
		price, _, _ := strings.Cut(card.Price, "\n")
		fmt.Fprintf(w, "%s  %s %s  %s · %s · %s\n",
			idStyle.Sprint(card.ID), card.Brand, card.Model, card.Category, card.Processor, price)
		if len(card.Features) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(card.Features, ", "))
		}
	}
	fmt.Fprintln(w, view.Stats.String())
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every detail of a phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			detail, err := s.app.Detail(args[0])
			if err != nil {
				return fmt.Errorf("app.Detail(%s) > %w", args[0], err)
			}
			return printMarkdown(cmd.OutOrStdout(), detail.Markdown())
		},
	}
}

func printMarkdown(w io.Writer, markdown string) error {
	out, err := render.Terminal(markdown, terminalWidth, markdownStyle)
	if err != nil {
		return fmt.Errorf("render.Terminal() > %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func newCompareCommand() *cobra.Command {
	var writePDF, writeHTML bool
	cmd := &cobra.Command{
		Use:   "compare <id>...",
		Short: fmt.Sprintf("Compare up to %d phones side by side", selection.MaxSize),
		Args:  cobra.RangeArgs(1, selection.MaxSize),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			for _, id := range args {
				if slices.Contains(s.app.View().SelectedIDs, id) {
					continue
				}
				if _, err := s.app.Toggle(id); err != nil {
					return fmt.Errorf("app.Toggle(%s) > %w", id, err)
				}
			}
			table, _, err := s.app.Compare()
			if err != nil {
				return fmt.Errorf("app.Compare() > %w", err)
			}

			title := fmt.Sprintf("Comparing %d phones", len(table.Headers))
			markdown := fmt.Sprintf("# %s\n\n%s", title, table.Markdown())
			if err := printMarkdown(cmd.OutOrStdout(), markdown); err != nil {
				return err
			}

			name := "compare_" + strings.Join(s.app.View().SelectedIDs, "_")
			if writePDF {
				path, err := pdf.Render(markdown, filepath.Join(s.cfg.Outputs.CompareDirectory, name+".pdf"), pdf.OrientationFor(len(table.Headers)))
				if err != nil {
					return fmt.Errorf("pdf.Render() > %w", err)
				}
				printNotice(cmd.OutOrStdout(), app.Notice{Level: app.LevelSuccess, Message: "Wrote " + path})
			}
			if writeHTML {
				page, err := render.HTMLPage(title, table.Markdown())
				if err != nil {
					return fmt.Errorf("render.HTMLPage() > %w", err)
				}
				if err := os.MkdirAll(s.cfg.Outputs.CompareDirectory, 0755); err != nil {
					return fmt.Errorf("os.MkdirAll(%s) > %w", s.cfg.Outputs.CompareDirectory, err)
				}
				path := filepath.Join(s.cfg.Outputs.CompareDirectory, name+".html")
				if err := os.WriteFile(path, page, 0644); err != nil {
					return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
				}
				printNotice(cmd.OutOrStdout(), app.Notice{Level: app.LevelSuccess, Message: "Wrote " + path})
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&writePDF, "pdf", false, "also write the comparison as a PDF into the compare directory")
	cmd.Flags().BoolVar(&writeHTML, "html", false, "also write the comparison as an HTML page into the compare directory")
	return cmd
}
