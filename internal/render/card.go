// Package render projects phone records, the selection and the counters into view fragments:
// list cards, the comparison table, the detail view and the status line.
package render

import (
	"fmt"

	"github.com/at-ishikawa/phonecompare/internal/phone"
	"github.com/at-ishikawa/phonecompare/internal/selection"
)

// MaxCardFeatures is the most features a card shows.
const MaxCardFeatures = 3

// Card is the summary of one phone in the list.
type Card struct {
	ID          string   `json:"id"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Model       string   `json:"model"`
	Series      string   `json:"series"`
	Processor   string   `json:"processor"`
	RAM         string   `json:"ram"`
	DisplaySize string   `json:"display_size"`
	RearCamera  string   `json:"rear_camera"`
	Price       string   `json:"price"`
	Features    []string `json:"features,omitempty"`
	Selected    bool     `json:"selected"`
}

// Selected reports whether a phone is in the comparison.
type Selected interface {
	Contains(id string) bool
}

// Cards builds one card per record, in order.
func Cards(records []phone.Record, selected Selected) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, NewCard(r, selected != nil && selected.Contains(r.ID)))
	}
	return cards
}

func NewCard(r phone.Record, selected bool) Card {
	var features []string
	for _, f := range r.Features {
		if len(features) == MaxCardFeatures {
			break
		}
		if f != "" {
			features = append(features, f)
		}
	}

	return Card{
		ID:          r.ID,
		Brand:       r.Brand,
		Category:    r.Category,
		Model:       r.Model,
		Series:      r.Series,
		Processor:   phone.OrUnknown(r.Processor.Model),
		RAM:         phone.OrUnknown(r.Memory.RAM),
		DisplaySize: phone.OrUnknown(r.Display.Size),
		RearCamera:  phone.ResolveRearCamera(r.Camera.Rear),
		Price:       phone.FormatPrice(r),
		Features:    features,
		Selected:    selected,
	}
}

// Stats are the counters shown next to the list.
type Stats struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Selected int `json:"selected"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d phones, %d shown, %d/%d selected", s.Total, s.Filtered, s.Selected, selection.MaxSize)
}
