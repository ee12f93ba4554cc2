package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/phonecompare/internal/phone"
	"github.com/at-ishikawa/phonecompare/internal/selection"
)

func fullRecord() phone.Record {
	return phone.Record{
		ID:          "xiaomi_15_pro",
		Brand:       "Xiaomi",
		Model:       "15 Pro",
		Series:      "Number",
		Category:    "旗舰",
		Processor:   phone.Processor{Brand: "Qualcomm", Model: "Snapdragon 8 Elite"},
		Memory:      phone.Memory{RAM: "12GB", Storage: phone.StorageOptions("256GB", "512GB")},
		Display:     phone.Display{Size: "6.73 inch", Resolution: "3200x1440", RefreshRate: "120Hz"},
		Camera:      phone.Camera{Rear: phone.RearCameraLenses("50MP", "50MP", "50MP"), Front: "32MP"},
		Battery:     phone.Battery{Capacity: "6100mAh", Charging: phone.SplitCharging("90W", "50W")},
		Price:       phone.Price{Start: phone.TieredPrice(5299, []phone.PriceVariant{{Config: "12G+256G", Price: "5299"}}), Currency: "CNY"},
		ReleaseDate: "2024-10",
		Features:    []string{"IP68", "Leica", "Ultrasonic fingerprint", "eSIM"},
		PurchaseLinks: map[string]string{
			"tmall": "https://tmall.com/15pro",
			"jd":    "https://jd.com/15pro",
		},
		DetailImages: []string{"https://img.example.com/1.jpg"},
		Description:  "Flagship with a 1 inch sensor.",
	}
}

func TestCards(t *testing.T) {
	sparse := phone.Record{ID: "sparse", Brand: "Nokia", Model: "X"}
	var selected selection.Set
	_, err := selected.Toggle("sparse", func(string) (phone.Record, bool) { return sparse, true })
	require.NoError(t, err)

	cards := Cards([]phone.Record{fullRecord(), sparse}, &selected)
	require.Len(t, cards, 2)

	assert.Equal(t, Card{
		ID:          "xiaomi_15_pro",
		Brand:       "Xiaomi",
		Category:    "旗舰",
		Model:       "15 Pro",
		Series:      "Number",
		Processor:   "Snapdragon 8 Elite",
		RAM:         "12GB",
		DisplaySize: "6.73 inch",
		RearCamera:  "50MP, 50MP, 50MP",
		Price:       "From ¥5,299\n12G+256G: ¥5,299",
		Features:    []string{"IP68", "Leica", "Ultrasonic fingerprint"},
	}, cards[0])

	assert.Equal(t, "sparse", cards[1].ID)
	assert.True(t, cards[1].Selected)
	assert.Equal(t, phone.Unknown, cards[1].Processor)
	assert.Equal(t, phone.Unknown, cards[1].RearCamera)
	assert.Equal(t, phone.PriceUnknown, cards[1].Price)
	assert.Empty(t, cards[1].Features)

	assert.Empty(t, Cards(nil, nil))
}

func TestCompare(t *testing.T) {
	t.Run("one column per record and a features row", func(t *testing.T) {
		plain := phone.Record{ID: "p", Brand: "Honor", Model: "X60", Price: phone.Price{Start: phone.FlatPrice(1199)}}
		table := Compare([]phone.Record{plain, fullRecord()})

		assert.Equal(t, []string{"Honor X60", "Xiaomi 15 Pro"}, table.Headers)
		labels := make([]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			labels = append(labels, row.Label)
			assert.Len(t, row.Cells, 2, row.Label)
		}
		assert.Equal(t, []string{
			"Brand", "Model", "Series", "Category", "Processor brand", "Processor model", "RAM", "Storage",
			"Display size", "Resolution", "Refresh rate", "Rear camera", "Front camera", "Battery",
			"Charging", "Starting price", "Release date", "Features",
		}, labels)

		byLabel := make(map[string][]string)
		for _, row := range table.Rows {
			byLabel[row.Label] = row.Cells
		}
		assert.Equal(t, []string{phone.Unknown, "256GB, 512GB"}, byLabel["Storage"])
		assert.Equal(t, []string{phone.Unknown, "90W (wired) / 50W (wireless)"}, byLabel["Charging"])
		assert.Equal(t, []string{"¥1,199", "¥5,299"}, byLabel["Starting price"])
		assert.Equal(t, []string{NoFeatures, "IP68, Leica, Ultrasonic fingerprint, eSIM"}, byLabel["Features"])
	})

	t.Run("no features row without features", func(t *testing.T) {
		table := Compare([]phone.Record{{ID: "a", Features: []string{" "}}, {ID: "b"}})
		assert.Len(t, table.Rows, 17)
		assert.Equal(t, "Release date", table.Rows[len(table.Rows)-1].Label)
	})
}

func TestTable_Markdown(t *testing.T) {
	table := Compare([]phone.Record{{ID: "a", Brand: "A", Model: "1|2"}, {ID: "b", Brand: "B", Model: "2"}})
	markdown := table.Markdown()

	lines := strings.Split(strings.TrimSuffix(markdown, "\n"), "\n")
	require.Len(t, lines, 2+len(table.Rows))
	assert.Equal(t, `|  | A 1\|2 | B 2 |`, lines[0])
	assert.Equal(t, "|---|---|---|", lines[1])
	assert.Equal(t, "| Brand | A | B |", lines[2])

	assert.Equal(t, "No phones selected.\n", Table{}.Markdown())
}

func TestNewDetail(t *testing.T) {
	d := NewDetail(fullRecord())

	assert.Equal(t, "Xiaomi 15 Pro", d.Title)
	titles := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Basic", "Processor", "Memory", "Display", "Camera", "Battery", "Price"}, titles)
	assert.Equal(t, []Field{{Label: "Starting price", Value: "¥5,299"}, {Label: "12G+256G", Value: "5299"}}, d.Sections[6].Fields)
	assert.Equal(t, []Link{{Store: "jd", URL: "https://jd.com/15pro"}, {Store: "tmall", URL: "https://tmall.com/15pro"}}, d.PurchaseLinks)

	markdown := d.Markdown()
	assert.True(t, strings.HasPrefix(markdown, "# Xiaomi 15 Pro\n"))
	assert.Contains(t, markdown, "- **Charging:** 90W (wired) / 50W (wireless)\n")
	assert.Contains(t, markdown, "## Features\n\n- IP68\n")
	assert.Contains(t, markdown, "## Description\n\nFlagship with a 1 inch sensor.\n")
	assert.Contains(t, markdown, "- [jd](https://jd.com/15pro)\n")
	assert.Contains(t, markdown, "- [Image 1](https://img.example.com/1.jpg)\n")

	sparse := NewDetail(phone.Record{ID: "s", Brand: "Nokia"})
	assert.Nil(t, sparse.Features)
	assert.Nil(t, sparse.PurchaseLinks)
	assert.Nil(t, sparse.Images)
	assert.NotContains(t, sparse.Markdown(), "## Features")
	assert.NotContains(t, sparse.Markdown(), "## Description")
}

func TestStats_String(t *testing.T) {
	assert.Equal(t, "120 phones, 8 shown, 2/6 selected", Stats{Total: 120, Filtered: 8, Selected: 2}.String())
}

func TestHTML(t *testing.T) {
	table := Compare([]phone.Record{{ID: "a", Brand: "Apple", Model: "<script>alert(1)</script>"}})
	html, err := HTML(table.Markdown())
	require.NoError(t, err)

	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>Brand</td>")
	assert.NotContains(t, html, "<script>")
}

func TestHTMLPage(t *testing.T) {
	page, err := HTMLPage("Compare <phones>", "| | A |\n|---|---|\n| Brand | A |\n")
	require.NoError(t, err)

	text := string(page)
	assert.Contains(t, text, "<title>Compare &lt;phones&gt;</title>")
	assert.Contains(t, text, "<td>Brand</td>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(NewDetail(fullRecord()).Markdown(), 200, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Xiaomi 15 Pro")
	assert.Contains(t, out, "Snapdragon 8 Elite")
}
