package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		orientation Orientation
		wantErr     bool
	}{
		{name: "portrait", fileName: filepath.Join("compare", "two.pdf"), orientation: Portrait},
		{name: "landscape", fileName: "wide.pdf", orientation: Landscape},
		{name: "default orientation", fileName: "default.pdf"},
		{name: "wrong extension", fileName: "table.md", wantErr: true},
	}

	markdown := "# Comparison\n\n|  | Apple iPhone 16 | Honor X60 |\n|---|---|---|\n| Brand | Apple | Honor |\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.fileName)
			got, err := Render(markdown, path, tt.orientation)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))

			contents, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, "%PDF", string(contents[:4]))
		})
	}
}

func TestOrientationFor(t *testing.T) {
	assert.Equal(t, Portrait, OrientationFor(2))
	assert.Equal(t, Portrait, OrientationFor(3))
	assert.Equal(t, Landscape, OrientationFor(4))
}
