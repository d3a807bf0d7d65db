package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gekko3d/meshtrace"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 10})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 0})
	img.SetRGBA(1, 1, color.RGBA{12, 34, 56, 255})
	return img
}

func TestEncodePPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePPM(&buf, testImage(), DefaultDelimiter))

	want := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"0 0 255\n" +
		"12 34 56\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodePPM_CommaDelimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(), FormatPPM, Options{Delimiter: ", "}))
	assert.Contains(t, buf.String(), "\n12, 34, 56\n")
}

func TestEncodePPM_SubImage(t *testing.T) {
	sub := testImage().SubImage(image.Rect(1, 1, 2, 2))
	var buf bytes.Buffer
	require.NoError(t, EncodePPM(&buf, sub, " "))
	assert.Equal(t, "P3\n1 1\n255\n12 34 56\n", buf.String())
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"image.ppm":  FormatPPM,
		"out/image":  FormatPPM,
		"image.PNG":  FormatPNG,
		"image.bmp":  FormatBMP,
		"image.tif":  FormatTIFF,
		"image.tiff": FormatTIFF,
	}
	for path, want := range tests {
		got, err := FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatForPath("image.jpg")
	assert.Error(t, err)
}

func TestWrite_PPM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.ppm")
	require.NoError(t, Write(path, testImage(), Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n12 34 56\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestWrite_BinaryFormatsAreOpaque(t *testing.T) {
	dir := t.TempDir()
	src := testImage()

	decoders := map[string]func(f *os.File) (image.Image, error){
		"image.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"image.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"image.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Write(path, src, Options{}))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			got, err := decode(f)
			require.NoError(t, err)

			assert.Equal(t, src.Bounds(), got.Bounds())
			r, g, b, a := got.At(1, 1).RGBA()
			assert.Equal(t, []uint32{12, 34, 56, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
			_, _, _, a = got.At(0, 1).RGBA()
			assert.Equal(t, uint32(0xffff), a)
		})
	}
}

func TestWrite_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.png")

	// The PNG encoder rejects a zero-sized image after the temp file exists.
	err := Write(path, image.NewRGBA(image.Rect(0, 0, 0, 0)), Options{})
	require.Error(t, err)

	var ioErr *meshtrace.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, path, ioErr.Path)
	assert.Equal(t, meshtrace.StageOutput, meshtrace.StageOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "image.ppm")
	err := Write(path, testImage(), Options{})

	var ioErr *meshtrace.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	err := Write(filepath.Join(dir, "image.jpg"), testImage(), Options{})

	var ioErr *meshtrace.IOError
	assert.True(t, errors.As(err, &ioErr))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
