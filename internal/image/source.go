package imagepkg

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decode support

	"github.com/spiritnsoul/couponart/internal/util"
)

// Source yields a decoded image. Loads must honour ctx cancellation.
type Source interface {
	Load(ctx context.Context) (image.Image, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (image.Image, error)

func (f SourceFunc) Load(ctx context.Context) (image.Image, error) { return f(ctx) }

var ErrInvalidDataURI = errors.New("invalid data URI")

// BytesSource decodes an in-memory encoded image.
type BytesSource []byte

func (b BytesSource) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(b)
}

// DataURISource decodes a data:image/...;base64,... reference.
type DataURISource string

func (d DataURISource) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := parseDataURI(string(d))
	if err != nil {
		return nil, err
	}
	return decode(b)
}

// FileSource decodes an image file from disk.
type FileSource string

func (f FileSource) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(string(f))
	if err != nil {
		return nil, err
	}
	return decode(b)
}

// URLSource downloads and decodes a remote image.
type URLSource struct {
	URL    string
	Client *http.Client
}

func (u URLSource) Load(ctx context.Context) (image.Image, error) {
	body, err := util.GetBytes(ctx, u.Client, u.URL)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// ParseSource picks a Source for a string reference: data URI, http(s) URL
// or file path.
func ParseSource(ref string) Source {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return DataURISource(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return URLSource{URL: ref}
	default:
		return FileSource(ref)
	}
}

func decode(b []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func parseDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: expected base64 payload", ErrInvalidDataURI)
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return b, nil
}

//go:embed assets/monogram.png
var monogramPNG []byte

var (
	embeddedOnce sync.Once
	embeddedImg  image.Image
	embeddedErr  error
)

// EmbeddedWatermark is the built-in monogram asset. It is decoded once and
// shared read-only.
func EmbeddedWatermark() Source {
	return SourceFunc(func(ctx context.Context) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddedOnce.Do(func() {
			embeddedImg, embeddedErr = decode(monogramPNG)
		})
		return embeddedImg, embeddedErr
	})
}

// DecodeDataURI returns the encoded bytes carried by a base64 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	return parseDataURI(uri)
}
