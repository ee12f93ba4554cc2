package phone

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Unknown is shown for any field that is missing or has a shape that cannot be displayed.
	Unknown = "Unknown"
	// PriceUnknown is shown on cards when no starting price can be resolved.
	PriceUnknown = "Price unknown"

	CurrencySymbol  = "¥"
	DefaultCurrency = "CNY"
)

var numberPrinter = message.NewPrinter(language.English)

// ResolvePrice returns the numeric starting price, or 0 when it is missing or unreadable.
func ResolvePrice(price Price) float64 {
	var v float64
	switch price.Start.kind {
	case shapeNumber:
		v = price.Start.flat
	case shapeObject:
		v = price.Start.starting
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ResolvePriceVariants returns the per-configuration prices, or nil when the price has none.
func ResolvePriceVariants(price Price) []PriceVariant {
	if price.Start.kind != shapeObject || len(price.Start.variants) == 0 {
		return nil
	}
	return append([]PriceVariant(nil), price.Start.variants...)
}

// FormatAmount renders an amount with the currency glyph and thousands separators, e.g. "¥5,699".
func FormatAmount(amount float64) string {
	if amount == math.Trunc(amount) {
		return CurrencySymbol + numberPrinter.Sprintf("%d", int64(amount))
	}
	return CurrencySymbol + numberPrinter.Sprintf("%.2f", amount)
}

// FormatPrice renders the price block of a card: a base line followed by one line per variant
// when variants exist, otherwise the single base price.
func FormatPrice(r Record) string {
	base := ResolvePrice(r.Price)
	variants := ResolvePriceVariants(r.Price)
	if len(variants) == 0 {
		if base <= 0 {
			return PriceUnknown
		}
		return FormatAmount(base)
	}

	lines := make([]string, 0, len(variants)+1)
	if base > 0 {
		lines = append(lines, "From "+FormatAmount(base))
	}
	for _, v := range variants {
		lines = append(lines, v.Config+": "+formatVariantPrice(v.Price))
	}
	return strings.Join(lines, "\n")
}

// FormatBasePrice renders the single line starting price used in tables and detail views.
func FormatBasePrice(r Record) string {
	base := ResolvePrice(r.Price)
	if base <= 0 {
		return Unknown
	}
	return FormatAmount(base)
}

func formatVariantPrice(price string) string {
	price = strings.TrimSpace(price)
	if strings.HasPrefix(price, CurrencySymbol) || strings.HasPrefix(price, "￥") {
		return price
	}
	if n := parseDigits(price); n > 0 && isPriceLike(price) {
		return FormatAmount(n)
	}
	return price
}

// ResolveCharging renders the charging field, e.g. "100W (wired) / 50W (wireless)".
func ResolveCharging(c Charging) string {
	switch c.kind {
	case shapeText:
		return OrUnknown(c.text)
	case shapeObject:
		wired := strings.TrimSpace(c.wired)
		wireless := strings.TrimSpace(c.wireless)
		switch {
		case wired != "" && wireless != "":
			return wired + " (wired) / " + wireless + " (wireless)"
		case wired != "":
			return wired + " (wired)"
		case wireless != "":
			return wireless + " (wireless)"
		}
	}
	return Unknown
}

// ResolveStorage renders the storage field, joining multiple options with ", ".
func ResolveStorage(s Storage) string {
	switch s.kind {
	case shapeText:
		return OrUnknown(s.text)
	case shapeList:
		if len(s.options) == 0 {
			return Unknown
		}
		return strings.Join(s.options, ", ")
	}
	return Unknown
}

// ResolveRearCamera renders the rear camera as main, ultra-wide and telephoto lenses in that order.
func ResolveRearCamera(c RearCamera) string {
	switch c.kind {
	case shapeText:
		return OrUnknown(c.text)
	case shapeObject:
		var parts []string
		for _, lens := range []string{c.main, c.ultraWide, c.telephoto} {
			if lens = strings.TrimSpace(lens); lens != "" {
				parts = append(parts, lens)
			}
		}
		if len(parts) == 0 {
			return Unknown
		}
		return strings.Join(parts, ", ")
	}
	return Unknown
}

func OrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

// HasFeatures reports whether the record lists at least one non-blank feature.
func (r Record) HasFeatures() bool {
	for _, f := range r.Features {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}

// SearchText is the lower-cased text the search box matches against.
func (r Record) SearchText() []string {
	return []string{
		strings.ToLower(r.Model),
		strings.ToLower(r.Brand),
		strings.ToLower(r.Processor.Model),
		strings.ToLower(r.Series),
		strings.ToLower(r.Category),
	}
}
