package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ImageLoader resolves a logo reference to PNG bytes.
type ImageLoader interface {
	Load(ref string) ([]byte, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ref string) ([]byte, error)

func (f ImageLoaderFunc) Load(ref string) ([]byte, error) { return f(ref) }

// MaxLogoPixels bounds the longest side of an embedded logo.
const MaxLogoPixels = 600

// FileImageLoader reads logos from disk or from base64 data URLs and
// re-encodes them as PNG, whatever their source format.
type FileImageLoader struct {
	// Root prefixes relative paths.
	Root string
}

func (l FileImageLoader) Load(ref string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	if strings.HasPrefix(ref, "data:") {
		img, err = decodeDataURL(ref)
	} else {
		path := ref
		if l.Root != "" && !filepath.IsAbs(path) {
			path = filepath.Join(l.Root, path)
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, statErr
		}
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return NormalizeLogo(img)
}

// NormalizeLogo scales img to fit MaxLogoPixels and encodes it as PNG.
func NormalizeLogo(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > MaxLogoPixels || b.Dy() > MaxLogoPixels {
		img = imaging.Fit(img, MaxLogoPixels, MaxLogoPixels, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDataURL(ref string) (image.Image, error) {
	i := strings.Index(ref, ",")
	if i < 0 || !strings.Contains(ref[:i], ";base64") {
		return nil, fmt.Errorf("unsupported data url")
	}
	raw, err := base64.StdEncoding.DecodeString(ref[i+1:])
	if err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(raw))
}
