package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/meshtrace"
)

func TestDispatchSize(t *testing.T) {
	x, y, err := DispatchSize(2048, 2048, 32, 8192)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), x)
	assert.Equal(t, uint32(64), y)

	x, y, err = DispatchSize(64, 32, 32, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 1}, []uint32{x, y})
}

func TestDispatchSize_Rejects(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		maxDim        uint32
	}{
		{"width not multiple", 100, 64, 0},
		{"height not multiple", 64, 48, 0},
		{"zero width", 0, 64, 0},
		{"zero height", 64, 0, 0},
		{"beyond device limit", 8192, 32, 4096},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DispatchSize(tt.width, tt.height, meshtrace.TileSize, tt.maxDim)
			var de *meshtrace.DispatchError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.width, de.Width)
			assert.Equal(t, tt.height, de.Height)
			assert.Equal(t, uint32(meshtrace.TileSize), de.Tile)
			assert.Equal(t, meshtrace.StageRender, meshtrace.StageOf(err))
		})
	}
}

func TestPaddedRowSize(t *testing.T) {
	assert.Equal(t, uint32(256), PaddedRowSize(1))
	assert.Equal(t, uint32(256), PaddedRowSize(64))
	assert.Equal(t, uint32(512), PaddedRowSize(65))
	assert.Equal(t, uint32(8192), PaddedRowSize(2048))
}

func TestUnpadRows(t *testing.T) {
	const width, height = 2, 3
	stride := PaddedRowSize(width)
	src := make([]byte, int(stride)*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := y*int(stride) + x*4
			src[off+0] = byte(10*y + x)
			src[off+1] = byte(100 + y)
			src[off+2] = byte(200 + x)
			src[off+3] = 255
		}
		// Padding must not leak into the image.
		for i := y*int(stride) + width*4; i < (y+1)*int(stride); i++ {
			src[i] = 0xAB
		}
	}

	img := unpadRows(src, width, height, stride)
	require.Equal(t, width, img.Bounds().Dx())
	require.Equal(t, height, img.Bounds().Dy())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x, y)
			assert.Equal(t, byte(10*y+x), c.R)
			assert.Equal(t, byte(100+y), c.G)
			assert.Equal(t, byte(200+x), c.B)
			assert.Equal(t, byte(255), c.A)
		}
	}
	assert.Len(t, img.Pix, width*height*4)
}
