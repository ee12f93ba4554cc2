package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

func testSnapshot() Snapshot {
	base := phone.Record{
		ID:       "base_1",
		Brand:    "Apple",
		Model:    "iPhone 16",
		Category: "Flagship",
		Price: phone.Price{
			Start:    phone.TieredPrice(5999, []phone.PriceVariant{{Config: "8G+256G", Price: "5999"}, {Config: "8G+128G", Price: "5499"}}),
			Currency: phone.DefaultCurrency,
		},
	}
	user := phone.Record{ID: "user_1", Brand: "Nokia", Model: "X<1>", Features: []string{"NFC"}}
	return Snapshot{
		Metadata: Metadata{
			ExportTime:  ExportTime(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)),
			TotalPhones: 2,
			UserAdded:   1,
		},
		Phones:          []phone.Record{base, user},
		UserAddedPhones: []phone.Record{user},
	}
}

func TestExportTime(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "2024-05-01T08:30:00.000Z", ExportTime(time.Date(2024, 5, 1, 17, 30, 0, 0, jst)))
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "phone_compare_data_2024-05-01.json", ExportFileName(FormatJSON, now))
	assert.Equal(t, "phone_compare_data_2024-05-01.yaml", ExportFileName(FormatYAML, now))
	assert.Equal(t, "phone_compare_data_2024-05-01.json", ExportFileName("", now))
}

func TestFormat_Set(t *testing.T) {
	var f Format
	assert.Equal(t, "json", f.String())
	require.NoError(t, f.Set("YML"))
	assert.Equal(t, FormatYAML, f)
	assert.Error(t, f.Set("csv"))
	assert.Equal(t, "format", f.Type())
}

func TestEncodeSnapshot_JSON(t *testing.T) {
	contents, err := EncodeSnapshot(testSnapshot(), FormatJSON)
	require.NoError(t, err)

	text := string(contents)
	assert.Contains(t, text, "\n  \"metadata\": {\n    \"export_time\": \"2024-05-01T08:30:00.000Z\"")
	assert.Contains(t, text, `"model": "X<1>"`)
	assert.Less(t, strings.Index(text, `"8G+256G"`), strings.Index(text, `"8G+128G"`))

	var generic map[string]any
	require.NoError(t, json.Unmarshal(contents, &generic))
	assert.Len(t, generic["phones"], 2)
	assert.Len(t, generic["userAddedPhones"], 1)
}

func TestEncodeSnapshot_EmptyListsAreWritten(t *testing.T) {
	contents, err := EncodeSnapshot(Snapshot{}, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"phones": []`)
	assert.Contains(t, string(contents), `"userAddedPhones": []`)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			contents, err := EncodeSnapshot(testSnapshot(), format)
			require.NoError(t, err)

			got, err := DecodeSnapshot(contents, format)
			require.NoError(t, err)
			require.Len(t, got.Phones, 2)
			require.Len(t, got.UserAddedPhones, 1)
			assert.Equal(t, 2, got.Metadata.TotalPhones)
			assert.Equal(t, "X<1>", got.UserAddedPhones[0].Model)
			assert.Equal(t, []string{"NFC"}, got.UserAddedPhones[0].Features)
			assert.Equal(t,
				[]phone.PriceVariant{{Config: "8G+256G", Price: "5999"}, {Config: "8G+128G", Price: "5499"}},
				phone.ResolvePriceVariants(got.Phones[0].Price))
		})
	}
}

func TestEncodeSnapshot_YAML(t *testing.T) {
	contents, err := EncodeSnapshot(testSnapshot(), FormatYAML)
	require.NoError(t, err)

	text := string(contents)
	assert.Contains(t, text, "metadata:\n  export_time:")
	assert.Contains(t, text, "userAddedPhones:")
	assert.NotContains(t, text, "{\"")
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		format   Format
	}{
		{name: "not json", contents: `{phones`, format: FormatJSON},
		{name: "missing phones", contents: `{"userAddedPhones": []}`, format: FormatJSON},
		{name: "phones is an object", contents: `{"phones": {"id": "a"}}`, format: FormatJSON},
		{name: "phones is null", contents: `{"phones": null}`, format: FormatJSON},
		{name: "phones entries are not objects", contents: `{"phones": [1, 2]}`, format: FormatJSON},
		{name: "top level list", contents: `[{"id": "a"}]`, format: FormatJSON},
		{name: "broken yaml", contents: "phones: [\n  - a", format: FormatYAML},
		{name: "yaml without phones", contents: "metadata:\n  total_phones: 1\n", format: FormatYAML},
		{name: "empty yaml", contents: "", format: FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.contents), tt.format)
			assert.ErrorIs(t, err, ErrImportFormat)
		})
	}
}

func TestDecodeSnapshot_IgnoresNonListUserPhones(t *testing.T) {
	got, err := DecodeSnapshot([]byte(`{"phones": [{"id": "a"}], "userAddedPhones": "nope"}`), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, got.Phones, 1)
	assert.Empty(t, got.UserAddedPhones)
}

func TestExportToFile_ImportFromFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			path, err := ExportToFile(dir, testSnapshot(), format, now)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "phone_compare_data_2024-05-01."+string(format)), path)

			got, err := ImportFromFile(path)
			require.NoError(t, err)
			assert.Len(t, got.Phones, 2)
		})
	}
}

func TestImportFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrImportFormat)

	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metadata": {}}`), 0644))
	_, err = ImportFromFile(path)
	assert.ErrorIs(t, err, ErrImportFormat)
}
