// Package testutil provides shared test helpers for creating config files and dataset fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// Phones returns a small dataset covering flat, tiered and missing prices.
func Phones() []phone.Record {
	return []phone.Record{
		{
			ID:        "apple_iphone_16",
			Brand:     "Apple",
			Model:     "iPhone 16",
			Series:    "iPhone",
			Category:  "旗舰",
			Processor: phone.Processor{Brand: "Apple", Model: "A18"},
			Memory:    phone.Memory{RAM: "8GB", Storage: phone.StorageOptions("128GB", "256GB", "512GB")},
			Display:   phone.Display{Size: "6.1 inch", Resolution: "2556x1179", RefreshRate: "60Hz"},
			Camera:    phone.Camera{Rear: phone.RearCameraLenses("48MP", "12MP", ""), Front: "12MP"},
			Battery:   phone.Battery{Capacity: "3561mAh", Charging: phone.SplitCharging("20W", "25W")},
			Price:     phone.Price{Start: phone.FlatPrice(5999), Currency: phone.DefaultCurrency},
			Features:  []string{"Dynamic Island", "Camera Control", "IP68"},
		},
		{
			ID:        "xiaomi_15",
			Brand:     "Xiaomi",
			Model:     "15",
			Series:    "Number",
			Category:  "旗舰",
			Processor: phone.Processor{Brand: "Qualcomm", Model: "Snapdragon 8 Elite"},
			Memory:    phone.Memory{RAM: "12GB", Storage: phone.StorageText("256GB")},
			Camera:    phone.Camera{Rear: phone.RearCameraText("50MP triple"), Front: "32MP"},
			Battery:   phone.Battery{Capacity: "5400mAh", Charging: phone.ChargingText("90W")},
			Price: phone.Price{
				Start: phone.TieredPrice(4499, []phone.PriceVariant{
					{Config: "12G+256G", Price: "4499"},
					{Config: "16G+512G", Price: "4999"},
				}),
				Currency: phone.DefaultCurrency,
			},
		},
		{
			ID:        "redmi_k80",
			Brand:     "Xiaomi",
			Model:     "Redmi K80",
			Series:    "K",
			Category:  "中端",
			Processor: phone.Processor{Brand: "Qualcomm", Model: "Snapdragon 8 Gen 3"},
			Price:     phone.Price{Start: phone.FlatPrice(2499), Currency: phone.DefaultCurrency},
		},
		{
			ID:       "honor_x60",
			Brand:    "Honor",
			Model:    "X60",
			Category: "入门",
			Price:    phone.Price{Start: phone.FlatPrice(1199), Currency: phone.DefaultCurrency},
		},
		{
			ID:       "nokia_unknown",
			Brand:    "Nokia",
			Model:    "G42",
			Category: "入门",
		},
	}
}

// WriteDataset writes records as a base dataset document and returns its path.
func WriteDataset(t *testing.T, path string, records []phone.Record) string {
	t.Helper()
	contents, err := json.MarshalIndent(map[string]any{"phones": records}, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, contents, 0644))
	return path
}

// SetupTestConfig creates a dataset, a config file and all required directories for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"user", "exports", "compare", "images"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}
	datasetPath := WriteDataset(t, filepath.Join(tmpDir, "phone_data.json"), Phones())

	configContent := fmt.Sprintf(`dataset:
  source: %s
  timeout_seconds: 2
  retry_attempts: 0
storage:
  driver: file
  directory: %s
  sqlite_path: %s
outputs:
  export_directory: %s
  compare_directory: %s
  image_directory: %s
`,
		datasetPath,
		filepath.Join(tmpDir, "user"),
		filepath.Join(tmpDir, "phonecompare.db"),
		filepath.Join(tmpDir, "exports"),
		filepath.Join(tmpDir, "compare"),
		filepath.Join(tmpDir, "images"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
