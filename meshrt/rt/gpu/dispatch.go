package gpu

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meshtrace"
)

// DispatchSize returns the workgroup grid covering a width x height image in
// tile x tile workgroups. Both dimensions must be positive multiples of tile
// and, when maxDim is non-zero, at most maxDim. Nothing is dispatched on
// error.
func DispatchSize(width, height, tile, maxDim uint32) (x, y uint32, err error) {
	fail := func(reason string) (uint32, uint32, error) {
		return 0, 0, &meshtrace.DispatchError{Width: width, Height: height, Tile: tile, Reason: reason}
	}
	switch {
	case tile == 0:
		return fail("tile size is zero")
	case width == 0 || height == 0:
		return fail("image has no pixels")
	case width%tile != 0 || height%tile != 0:
		return fail("dimensions are not multiples of the tile size")
	case maxDim != 0 && (width > maxDim || height > maxDim):
		return fail("exceeds the device texture limit")
	}
	return width / tile, height / tile, nil
}

// PaddedRowSize is the byte stride of one RGBA8 row in a texture readback
// buffer; copies require rows aligned to CopyBytesPerRowAlignment.
func PaddedRowSize(width uint32) uint32 {
	align := uint32(wgpu.CopyBytesPerRowAlignment)
	unpadded := width * 4
	return (unpadded + align - 1) / align * align
}

// unpadRows copies height rows of width RGBA8 pixels out of a readback buffer
// with the given row stride.
func unpadRows(src []byte, width, height, bytesPerRow uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	rowBytes := int(width) * 4
	for y := 0; y < int(height); y++ {
		off := y * int(bytesPerRow)
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], src[off:off+rowBytes])
	}
	return img
}
