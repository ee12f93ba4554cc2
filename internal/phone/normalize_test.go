package phone

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePrice(t *testing.T, raw string) Price {
	t.Helper()
	var p Price
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestResolvePrice(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "missing start price", raw: `{}`, expected: 0},
		{name: "null start price", raw: `{"start_price": null}`, expected: 0},
		{name: "flat number", raw: `{"start_price": 3999}`, expected: 3999},
		{name: "negative number", raw: `{"start_price": -10}`, expected: 0},
		{name: "tiered numeric", raw: `{"start_price": {"starting_price": 4299}}`, expected: 4299},
		{name: "tiered numeric string with unit", raw: `{"start_price": {"starting_price": "5699元"}}`, expected: 5699},
		{name: "tiered string with glyph and separators", raw: `{"start_price": {"starting_price": "¥6,499起"}}`, expected: 6499},
		{name: "tiered string with decimals", raw: `{"start_price": {"starting_price": "1999.99"}}`, expected: 1999},
		{name: "tiered without starting price", raw: `{"start_price": {"storage_variants": {"8+256": "2999"}}}`, expected: 0},
		{name: "tiered string without digits", raw: `{"start_price": {"starting_price": "TBD"}}`, expected: 0},
		{name: "plain string", raw: `{"start_price": "about 3000"}`, expected: 0},
		{name: "array", raw: `{"start_price": [1, 2]}`, expected: 0},
		{name: "boolean", raw: `{"start_price": true}`, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(decodePrice(t, tt.raw))
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got, float64(0))
		})
	}
}

func TestResolvePriceVariants(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []PriceVariant
	}{
		{
			name:     "flat price has no variants",
			raw:      `{"start_price": 2999}`,
			expected: nil,
		},
		{
			name:     "tiered without variants",
			raw:      `{"start_price": {"starting_price": 2999}}`,
			expected: nil,
		},
		{
			name: "storage variants keep their written order",
			raw:  `{"start_price": {"starting_price": 5699, "storage_variants": {"16+512": "6499", "12+256": "5699元"}}}`,
			expected: []PriceVariant{
				{Config: "16G+512G", Price: "6499"},
				{Config: "12G+256G", Price: "5699元"},
			},
		},
		{
			name: "sibling price-like strings are variants",
			raw:  `{"start_price": {"starting_price": "3999", "12+256": "¥3,999", "note": "limited stock", "16+1T": "4999元起"}}`,
			expected: []PriceVariant{
				{Config: "12G+256G", Price: "¥3,999"},
				{Config: "16G+1T", Price: "4999元起"},
			},
		},
		{
			name: "numeric variant values",
			raw:  `{"start_price": {"storage_variants": {"8+128": 1999}}}`,
			expected: []PriceVariant{
				{Config: "8G+128G", Price: "1999"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePriceVariants(decodePrice(t, tt.raw)))
		})
	}
}

func TestNormalizeConfigLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{label: "12+256", expected: "12G+256G"},
		{label: "12G+256G", expected: "12G+256G"},
		{label: " 16 + 1T ", expected: "16G+1T"},
		{label: "standard", expected: "standard"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeConfigLabel(tt.label))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		expected string
	}{
		{name: "missing", price: `{}`, expected: PriceUnknown},
		{name: "zero", price: `{"start_price": 0}`, expected: PriceUnknown},
		{name: "flat", price: `{"start_price": 5699}`, expected: "¥5,699"},
		{name: "large flat", price: `{"start_price": 12999}`, expected: "¥12,999"},
		{name: "small flat", price: `{"start_price": 999}`, expected: "¥999"},
		{
			name:     "variants with base line",
			price:    `{"start_price": {"starting_price": "5699元", "storage_variants": {"12+256": "5699元", "16+512": "¥6,499"}}}`,
			expected: "From ¥5,699\n12G+256G: ¥5,699\n16G+512G: ¥6,499",
		},
		{
			name:     "variants without base line",
			price:    `{"start_price": {"storage_variants": {"8+256": "2999"}}}`,
			expected: "8G+256G: ¥2,999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Price: decodePrice(t, tt.price)}
			assert.Equal(t, tt.expected, FormatPrice(r))
		})
	}
}

func TestFormatBasePrice(t *testing.T) {
	assert.Equal(t, Unknown, FormatBasePrice(Record{}))
	assert.Equal(t, "¥4,299", FormatBasePrice(Record{Price: Price{Start: FlatPrice(4299)}}))
	assert.Equal(t, "¥1,999.50", FormatBasePrice(Record{Price: Price{Start: FlatPrice(1999.5)}}))
	assert.Equal(t, "¥3,999", FormatBasePrice(Record{Price: Price{Start: TieredPrice(3999, []PriceVariant{{Config: "8G+256G", Price: "3999"}})}}))
}

func TestResolveCharging(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "absent", raw: `null`, expected: Unknown},
		{name: "text", raw: `"120W wired"`, expected: "120W wired"},
		{name: "empty text", raw: `""`, expected: Unknown},
		{name: "wired and wireless", raw: `{"wired": "100W", "wireless": "50W"}`, expected: "100W (wired) / 50W (wireless)"},
		{name: "wired only", raw: `{"wired": "67W"}`, expected: "67W (wired)"},
		{name: "wireless only", raw: `{"wireless": "15W"}`, expected: "15W (wireless)"},
		{name: "empty object", raw: `{}`, expected: Unknown},
		{name: "number", raw: `67`, expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Charging
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, tt.expected, ResolveCharging(c))
		})
	}
}

func TestResolveStorage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "absent", raw: `null`, expected: Unknown},
		{name: "text", raw: `"256GB/512GB"`, expected: "256GB/512GB"},
		{name: "options", raw: `["256GB", "512GB", "1TB"]`, expected: "256GB, 512GB, 1TB"},
		{name: "empty options", raw: `[]`, expected: Unknown},
		{name: "object", raw: `{"base": "256GB"}`, expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Storage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.expected, ResolveStorage(s))
		})
	}
}

func TestResolveRearCamera(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "absent", raw: `null`, expected: Unknown},
		{name: "text", raw: `"50MP + 8MP"`, expected: "50MP + 8MP"},
		{
			name:     "lenses in fixed order",
			raw:      `{"telephoto": "64MP", "main": "50MP", "ultra_wide": "48MP"}`,
			expected: "50MP, 48MP, 64MP",
		},
		{name: "missing lenses are skipped", raw: `{"main": "200MP", "telephoto": "10MP"}`, expected: "200MP, 10MP"},
		{name: "no lenses", raw: `{"depth": "2MP"}`, expected: Unknown},
		{name: "array", raw: `["50MP"]`, expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c RearCamera
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, tt.expected, ResolveRearCamera(c))
		})
	}
}

func TestOrUnknown(t *testing.T) {
	assert.Equal(t, Unknown, OrUnknown(""))
	assert.Equal(t, Unknown, OrUnknown("   "))
	assert.Equal(t, "8GB", OrUnknown("8GB"))
}
