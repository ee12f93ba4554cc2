package render

import (
	"strings"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// NoFeatures fills the features row for a phone without features.
const NoFeatures = "None"

// Table is a side-by-side comparison with one column per phone.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

type Row struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

type attribute struct {
	label string
	value func(phone.Record) string
}

var compareAttributes = []attribute{
	{"Brand", func(r phone.Record) string { return phone.OrUnknown(r.Brand) }},
	{"Model", func(r phone.Record) string { return phone.OrUnknown(r.Model) }},
	{"Series", func(r phone.Record) string { return phone.OrUnknown(r.Series) }},
	{"Category", func(r phone.Record) string { return phone.OrUnknown(r.Category) }},
	{"Processor brand", func(r phone.Record) string { return phone.OrUnknown(r.Processor.Brand) }},
	{"Processor model", func(r phone.Record) string { return phone.OrUnknown(r.Processor.Model) }},
	{"RAM", func(r phone.Record) string { return phone.OrUnknown(r.Memory.RAM) }},
	{"Storage", func(r phone.Record) string { return phone.ResolveStorage(r.Memory.Storage) }},
	{"Display size", func(r phone.Record) string { return phone.OrUnknown(r.Display.Size) }},
	{"Resolution", func(r phone.Record) string { return phone.OrUnknown(r.Display.Resolution) }},
	{"Refresh rate", func(r phone.Record) string { return phone.OrUnknown(r.Display.RefreshRate) }},
	{"Rear camera", func(r phone.Record) string { return phone.ResolveRearCamera(r.Camera.Rear) }},
	{"Front camera", func(r phone.Record) string { return phone.OrUnknown(r.Camera.Front) }},
	{"Battery", func(r phone.Record) string { return phone.OrUnknown(r.Battery.Capacity) }},
	{"Charging", func(r phone.Record) string { return phone.ResolveCharging(r.Battery.Charging) }},
	{"Starting price", phone.FormatBasePrice},
	{"Release date", func(r phone.Record) string { return phone.OrUnknown(r.ReleaseDate) }},
}

// Compare lays the records out in selection order. The features row is only present when at
// least one record has features.
func Compare(records []phone.Record) Table {
	table := Table{
		Headers: make([]string, 0, len(records)),
	}
	for _, r := range records {
		table.Headers = append(table.Headers, r.Title())
	}

	for _, attr := range compareAttributes {
		row := Row{Label: attr.label, Cells: make([]string, 0, len(records))}
		for _, r := range records {
			row.Cells = append(row.Cells, attr.value(r))
		}
		table.Rows = append(table.Rows, row)
	}

	anyFeatures := false
	for _, r := range records {
		if r.HasFeatures() {
			anyFeatures = true
			break
		}
	}
	if anyFeatures {
		row := Row{Label: "Features", Cells: make([]string, 0, len(records))}
		for _, r := range records {
			if !r.HasFeatures() {
				row.Cells = append(row.Cells, NoFeatures)
				continue
			}
			row.Cells = append(row.Cells, strings.Join(nonBlank(r.Features), ", "))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Markdown renders the table as a GitHub flavored markdown table.
func (t Table) Markdown() string {
	if len(t.Headers) == 0 {
		return "No phones selected.\n"
	}

	var b strings.Builder
	writeRow := func(label string, cells []string) {
		b.WriteString("| ")
		b.WriteString(escapeCell(label))
		for _, c := range cells {
			b.WriteString(" | ")
			b.WriteString(escapeCell(c))
		}
		b.WriteString(" |\n")
	}

	writeRow("", t.Headers)
	b.WriteString("|---")
	for range t.Headers {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	for _, row := range t.Rows {
		writeRow(row.Label, row.Cells)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " / ")
	return strings.ReplaceAll(s, "\n", " / ")
}

func nonBlank(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			result = append(result, v)
		}
	}
	return result
}
