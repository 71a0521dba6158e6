// Package imaging shrinks and recompresses uploaded images in place.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result describes what Optimize did to a file.
type Result struct {
	Format     string
	Width      int
	Height     int
	Resized    bool
	Rewritten  bool
	SizeBefore int64
	SizeAfter  int64
}

// Optimizer fits images inside MaxWidth x MaxHeight without upscaling and
// re-encodes JPEG and PNG. WebP and GIF have no pure-Go encoder here, so
// they are measured and left as uploaded.
type Optimizer struct {
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

func NewOptimizer() *Optimizer {
	return &Optimizer{MaxWidth: 1920, MaxHeight: 1080, JPEGQuality: 90}
}

// Optimize rewrites the file at path. On any error the original file is
// left untouched.
func (o *Optimizer) Optimize(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	res := &Result{Format: format, SizeBefore: int64(len(data)), SizeAfter: int64(len(data))}

	if format == "webp" || format == "gif" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		res.Width, res.Height = cfg.Width, cfg.Height
		return res, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	b := img.Bounds()
	if b.Dx() > o.MaxWidth || b.Dy() > o.MaxHeight {
		img = imaging.Fit(img, o.MaxWidth, o.MaxHeight, imaging.Lanczos)
		res.Resized = true
	}
	b = img.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()

	var buf bytes.Buffer
	if err := o.encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	if err := replaceFile(path, buf.Bytes()); err != nil {
		return nil, err
	}
	res.Rewritten = true
	res.SizeAfter = int64(buf.Len())
	return res, nil
}

func (o *Optimizer) encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: o.JPEGQuality})
	}
}

// replaceFile writes data next to path and renames it over the original.
func replaceFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing optimized image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing image: %w", err)
	}
	return nil
}

func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is refused outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
