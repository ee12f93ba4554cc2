package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

var ErrImportFormat = errors.New("invalid import file")

// Snapshot is the export and import document.
type Snapshot struct {
	Metadata        Metadata       `json:"metadata"`
	Phones          []phone.Record `json:"phones"`
	UserAddedPhones []phone.Record `json:"userAddedPhones"`
}

type Metadata struct {
	ExportTime  string `json:"export_time"`
	TotalPhones int    `json:"total_phones"`
	UserAdded   int    `json:"user_added"`
}

// ExportTime formats t the way export metadata records it, e.g. 2024-05-01T08:30:00.000Z.
func ExportTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Format is the encoding of an export file. It implements pflag.Value.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func (f *Format) String() string {
	if *f == "" {
		return string(FormatJSON)
	}
	return string(*f)
}

func (f *Format) Set(value string) error {
	switch strings.ToLower(value) {
	case "json":
		*f = FormatJSON
	case "yaml", "yml":
		*f = FormatYAML
	default:
		return fmt.Errorf("unsupported format %q, must be json or yaml", value)
	}
	return nil
}

func (f *Format) Type() string {
	return "format"
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ExportFileName is the dated file name of an export, e.g. phone_compare_data_2024-05-01.json.
func ExportFileName(format Format, now time.Time) string {
	return fmt.Sprintf("phone_compare_data_%s.%s", now.UTC().Format("2006-01-02"), format.String())
}

// EncodeSnapshot renders the snapshot as 2-space indented JSON or as YAML.
func EncodeSnapshot(snapshot Snapshot, format Format) ([]byte, error) {
	if snapshot.Phones == nil {
		snapshot.Phones = []phone.Record{}
	}
	if snapshot.UserAddedPhones == nil {
		snapshot.UserAddedPhones = []phone.Record{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("encoder.Encode > %w", err)
	}
	if format != FormatYAML {
		return buf.Bytes(), nil
	}

	contents, err := jsonToYAML(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("jsonToYAML > %w", err)
	}
	return contents, nil
}

// ExportToFile writes the snapshot under dir and returns the written path.
func ExportToFile(dir string, snapshot Snapshot, format Format, now time.Time) (string, error) {
	contents, err := EncodeSnapshot(snapshot, format)
	if err != nil {
		return "", fmt.Errorf("EncodeSnapshot > %w", err)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	path := filepath.Join(dir, ExportFileName(format, now))
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}

// ImportFromFile reads a snapshot, choosing the format by the file extension.
func ImportFromFile(path string) (Snapshot, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	snapshot, err := DecodeSnapshot(contents, FormatFromPath(path))
	if err != nil {
		return Snapshot{}, fmt.Errorf("DecodeSnapshot(%s) > %w", path, err)
	}
	return snapshot, nil
}

// DecodeSnapshot parses an export document. It fails with ErrImportFormat unless the document
// parses and carries a phones list. A userAddedPhones entry that is not a list is ignored.
func DecodeSnapshot(contents []byte, format Format) (Snapshot, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(contents)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		contents = converted
	}

	var document map[string]json.RawMessage
	if err := json.Unmarshal(contents, &document); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	rawPhones, ok := document["phones"]
	if !ok || !isList(rawPhones) {
		return Snapshot{}, fmt.Errorf("%w: phones must be a list", ErrImportFormat)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(rawPhones, &snapshot.Phones); err != nil {
		return Snapshot{}, fmt.Errorf("%w: phones: %v", ErrImportFormat, err)
	}
	if rawUser, ok := document["userAddedPhones"]; ok && isList(rawUser) {
		if err := json.Unmarshal(rawUser, &snapshot.UserAddedPhones); err != nil {
			return Snapshot{}, fmt.Errorf("%w: userAddedPhones: %v", ErrImportFormat, err)
		}
	}
	if rawMetadata, ok := document["metadata"]; ok {
		// metadata is informational only
		_ = json.Unmarshal(rawMetadata, &snapshot.Metadata)
	}
	return snapshot, nil
}

func isList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
