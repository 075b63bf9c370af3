package rod

import (
	"testing"

	"github.com/psawicki/advault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"tag": "body",
		"attrs": {},
		"text": "",
		"rect": {"x": 0, "y": 0, "w": 1280, "h": 900},
		"position": "static",
		"zIndex": 0,
		"naturalWidth": 0,
		"naturalHeight": 0,
		"children": [
			{
				"tag": "div",
				"attrs": {"role": "dialog"},
				"text": "Started running on January 5, 2026",
				"rect": {"x": 100, "y": 50, "w": 600, "h": 700},
				"position": "fixed",
				"zIndex": 100,
				"naturalWidth": 0,
				"naturalHeight": 0,
				"children": [
					{
						"tag": "img",
						"attrs": {"src": "https://scontent.xx.fbcdn.net/v/creative.jpg"},
						"text": "",
						"rect": {"x": 120, "y": 80, "w": 400, "h": 400},
						"position": "static",
						"zIndex": 0,
						"naturalWidth": 1080,
						"naturalHeight": 1080,
						"children": []
					}
				]
			}
		]
	}`)

	root, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, "body", root.Tag)
	assert.Equal(t, 1280.0, root.Rect.Width)
	require.Len(t, root.Children, 1)

	dialog := root.Children[0]
	assert.Equal(t, "dialog", dialog.Attr("role"))
	assert.Equal(t, "fixed", dialog.Position)
	assert.Equal(t, 100, dialog.ZIndex)
	assert.Equal(t, "Started running on January 5, 2026", dialog.Text)

	require.Len(t, dialog.Children, 1)
	img := dialog.Children[0]
	assert.Equal(t, "img", img.Tag)
	assert.Equal(t, 1080, img.NaturalWidth)
	assert.Equal(t, "https://scontent.xx.fbcdn.net/v/creative.jpg", img.Attr("src"))
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	t.Parallel()

	_, err := DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)
}

func TestClassifyMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime     string
		wantKind advault.MediaKind
		wantOK   bool
	}{
		{"video/mp4", advault.MediaVideo, true},
		{"video/webm", advault.MediaVideo, true},
		{"application/x-mpegurl-mp4", advault.MediaVideo, true},
		{"image/jpeg", advault.MediaImage, true},
		{"image/png", advault.MediaImage, true},
		{"image/webp", advault.MediaImage, true},
		{"image/gif", advault.MediaImage, true},
		{"image/svg+xml", "", false},
		{"text/html", "", false},
		{"application/json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			t.Parallel()
			kind, ok := classifyMIME(tt.mime)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, kind)
			}
		})
	}
}
