package imageio

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gekko3d/meshtrace"
)

type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatForPath selects an encoder from the file extension. A path without
// an extension gets the text dump.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
}

type Options struct {
	// Delimiter separates channels in the PPM dump. Empty means DefaultDelimiter.
	Delimiter string
}

// Encode writes img to w in the given format. Every format is written opaque.
func Encode(w io.Writer, img image.Image, format Format, opts Options) error {
	switch format {
	case FormatPPM:
		delim := opts.Delimiter
		if delim == "" {
			delim = DefaultDelimiter
		}
		return EncodePPM(w, img, delim)
	case FormatPNG:
		return png.Encode(w, opaque(img))
	case FormatBMP:
		return bmp.Encode(w, opaque(img))
	case FormatTIFF:
		return tiff.Encode(w, opaque(img), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// opaque copies img with alpha forced to 255.
func opaque(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// Write encodes img into path atomically: the data goes to a temp file in the
// destination directory that is renamed over path only once fully written.
// Failures are reported as *meshtrace.IOError and leave no file behind.
func Write(path string, img image.Image, opts Options) error {
	format, err := FormatForPath(path)
	if err != nil {
		return &meshtrace.IOError{Op: "write image", Path: path, Err: err}
	}

	dir, name := filepath.Split(path)
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &meshtrace.IOError{Op: "create image", Path: path, Err: err}
	}

	if err := Encode(f, img, format, opts); err != nil {
		f.Close()
		os.Remove(tmp)
		return &meshtrace.IOError{Op: "write image", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &meshtrace.IOError{Op: "write image", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &meshtrace.IOError{Op: "rename image", Path: path, Err: err}
	}
	return nil
}
