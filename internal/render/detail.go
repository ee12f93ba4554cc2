package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// Detail is the full view of one phone.
type Detail struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Sections      []Section `json:"sections"`
	Features      []string  `json:"features,omitempty"`
	Description   string    `json:"description,omitempty"`
	PurchaseLinks []Link    `json:"purchase_links,omitempty"`
	Images        []string  `json:"images,omitempty"`
}

type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Link struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

func NewDetail(r phone.Record) Detail {
	priceFields := []Field{{Label: "Starting price", Value: phone.FormatBasePrice(r)}}
	for _, v := range phone.ResolvePriceVariants(r.Price) {
		priceFields = append(priceFields, Field{Label: v.Config, Value: v.Price})
	}

	d := Detail{
		ID:    r.ID,
		Title: r.Title(),
		Sections: []Section{
			{Title: "Basic", Fields: []Field{
				{Label: "Brand", Value: phone.OrUnknown(r.Brand)},
				{Label: "Model", Value: phone.OrUnknown(r.Model)},
				{Label: "Series", Value: phone.OrUnknown(r.Series)},
				{Label: "Category", Value: phone.OrUnknown(r.Category)},
				{Label: "Release date", Value: phone.OrUnknown(r.ReleaseDate)},
			}},
			{Title: "Processor", Fields: []Field{
				{Label: "Brand", Value: phone.OrUnknown(r.Processor.Brand)},
				{Label: "Model", Value: phone.OrUnknown(r.Processor.Model)},
			}},
			{Title: "Memory", Fields: []Field{
				{Label: "RAM", Value: phone.OrUnknown(r.Memory.RAM)},
				{Label: "Storage", Value: phone.ResolveStorage(r.Memory.Storage)},
			}},
			{Title: "Display", Fields: []Field{
				{Label: "Size", Value: phone.OrUnknown(r.Display.Size)},
				{Label: "Resolution", Value: phone.OrUnknown(r.Display.Resolution)},
				{Label: "Refresh rate", Value: phone.OrUnknown(r.Display.RefreshRate)},
			}},
			{Title: "Camera", Fields: []Field{
				{Label: "Rear", Value: phone.ResolveRearCamera(r.Camera.Rear)},
				{Label: "Front", Value: phone.OrUnknown(r.Camera.Front)},
			}},
			{Title: "Battery", Fields: []Field{
				{Label: "Capacity", Value: phone.OrUnknown(r.Battery.Capacity)},
				{Label: "Charging", Value: phone.ResolveCharging(r.Battery.Charging)},
			}},
			{Title: "Price", Fields: priceFields},
		},
		Features:    nonBlank(r.Features),
		Description: strings.TrimSpace(r.Description),
	}
	if len(d.Features) == 0 {
		d.Features = nil
	}

	stores := make([]string, 0, len(r.PurchaseLinks))
	for store := range r.PurchaseLinks {
		stores = append(stores, store)
	}
	sort.Strings(stores)
	for _, store := range stores {
		if url := strings.TrimSpace(r.PurchaseLinks[store]); url != "" {
			d.PurchaseLinks = append(d.PurchaseLinks, Link{Store: store, URL: url})
		}
	}
	d.Images = nonBlank(r.DetailImages)
	if len(d.Images) == 0 {
		d.Images = nil
	}
	return d
}

// Markdown renders the detail view as a markdown document.
func (d Detail) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Title)
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "- **%s:** %s\n", f.Label, f.Value)
		}
	}
	if len(d.Features) > 0 {
		b.WriteString("\n## Features\n\n")
		for _, f := range d.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if d.Description != "" {
		fmt.Fprintf(&b, "\n## Description\n\n%s\n", d.Description)
	}
	if len(d.PurchaseLinks) > 0 {
		b.WriteString("\n## Purchase links\n\n")
		for _, l := range d.PurchaseLinks {
			fmt.Fprintf(&b, "- [%s](%s)\n", l.Store, l.URL)
		}
	}
	if len(d.Images) > 0 {
		b.WriteString("\n## Images\n\n")
		for i, url := range d.Images {
			fmt.Fprintf(&b, "- [Image %d](%s)\n", i+1, url)
		}
	}
	return b.String()
}
