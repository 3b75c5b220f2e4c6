package imagepkg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	assert.IsType(t, DataURISource(""), ParseSource("data:image/png;base64,AAAA"))
	assert.IsType(t, URLSource{}, ParseSource("https://example.com/bg.png"))
	assert.IsType(t, URLSource{}, ParseSource("http://example.com/bg.png"))
	assert.IsType(t, FileSource(""), ParseSource("/tmp/bg.png"))
}

func TestDataURIRoundTrip(t *testing.T) {
	uri := DataURI(solidPNG(t, 4, 3, grey))
	img, err := DataURISource(uri).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestParseDataURIErrors(t *testing.T) {
	for _, uri := range []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png,raw",
		"data:image/png;base64",
		"data:image/png;base64,%%%",
	} {
		_, err := parseDataURI(uri)
		assert.ErrorIs(t, err, ErrInvalidDataURI, uri)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, solidPNG(t, 10, 6, grey), 0o644))

	img, err := FileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestURLSource(t *testing.T) {
	body := solidPNG(t, 7, 7, grey)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bg.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	img, err := URLSource{URL: srv.URL + "/bg.png", Client: srv.Client()}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, img.Bounds().Dx())

	_, err = URLSource{URL: srv.URL + "/other.png"}.Load(context.Background())
	assert.Error(t, err)
}

func TestEmbeddedWatermark(t *testing.T) {
	img, err := EmbeddedWatermark().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 384, img.Bounds().Dx())
	assert.Equal(t, 384, img.Bounds().Dy())

	again, err := EmbeddedWatermark().Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, img, again)
}

func TestSourcesHonourCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, src := range []Source{
		BytesSource(solidPNG(t, 2, 2, grey)),
		DataURISource(DataURI(solidPNG(t, 2, 2, grey))),
		FileSource("/whatever.png"),
		EmbeddedWatermark(),
	} {
		_, err := src.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}
}
