// Package imageio serializes rendered images. The default format is a plain
// text pixel dump (PPM P3); PNG, BMP and TIFF are selected by file extension.
package imageio

import (
	"bufio"
	"image"
	"io"
	"strconv"
)

// DefaultDelimiter separates the channels of a pixel line. It keeps the dump a
// valid P3 file; ", " reproduces the comma-separated dump some tools expect.
const DefaultDelimiter = " "

// EncodePPM writes img as an ASCII P3 dump: a "P3\n<w> <h>\n255\n" header
// followed by one pixel per line, left to right and top to bottom, each line
// holding the red, green and blue values joined by delim. Alpha is dropped.
func EncodePPM(w io.Writer, img image.Image, delim string) error {
	b := img.Bounds()
	bw := bufio.NewWriterSize(w, 256*1024)

	bw.WriteString("P3\n")
	bw.WriteString(strconv.Itoa(b.Dx()))
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(b.Dy()))
	bw.WriteString("\n255\n")

	var num [3]byte
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := rgb8(img, x, y)
			bw.Write(strconv.AppendUint(num[:0], uint64(r), 10))
			bw.WriteString(delim)
			bw.Write(strconv.AppendUint(num[:0], uint64(g), 10))
			bw.WriteString(delim)
			bw.Write(strconv.AppendUint(num[:0], uint64(bl), 10))
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// rgb8 reads a pixel as 8-bit channels, taking the fast path for *image.RGBA.
func rgb8(img image.Image, x, y int) (r, g, b uint8) {
	if rgba, ok := img.(*image.RGBA); ok {
		i := rgba.PixOffset(x, y)
		return rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]
	}
	r32, g32, b32, _ := img.At(x, y).RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8)
}
