package tilemap_renderer

import "github.com/Carmen-Shannon/oxy-tilemap/common"

const defaultCellSize = 8

// defaultPalette holds the base color of each default atlas cell, in tile id order from 1.
var defaultPalette = [][4]uint8{
	{86, 160, 60, 255},   // grass
	{120, 120, 128, 255}, // rock
	{128, 88, 56, 255},   // dirt
	{214, 196, 120, 255}, // sand
	{60, 110, 200, 200},  // water
	{236, 240, 245, 255}, // snow
	{220, 90, 30, 255},   // lava
	{150, 110, 70, 255},  // wood
}

// DefaultAtlas is the layout of DefaultTileset.
var DefaultAtlas = Atlas{Columns: 4, Rows: 2}

// DefaultTileset generates a small flat-colored atlas so a tilemap can be drawn without
// any image assets. Each cell has a darker one pixel border so tile edges stay visible.
//
// Returns:
//   - common.TextureStagingData: RGBA pixels laid out as DefaultAtlas
func DefaultTileset() common.TextureStagingData {
	w := DefaultAtlas.Columns * defaultCellSize
	h := DefaultAtlas.Rows * defaultCellSize
	pixels := make([]byte, w*h*4)

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			cell := (py/defaultCellSize)*DefaultAtlas.Columns + px/defaultCellSize
			c := defaultPalette[cell%len(defaultPalette)]

			cx, cy := px%defaultCellSize, py%defaultCellSize
			if cx == 0 || cy == 0 || cx == defaultCellSize-1 || cy == defaultCellSize-1 {
				c = [4]uint8{shade(c[0]), shade(c[1]), shade(c[2]), c[3]}
			}

			i := (py*w + px) * 4
			copy(pixels[i:i+4], c[:])
		}
	}

	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(w),
		Height: uint32(h),
	}
}

func shade(v uint8) uint8 {
	return uint8(int(v) * 3 / 4)
}
