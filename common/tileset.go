package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// TilesetImage is a tile atlas: an image split into Columns x Rows equal cells, one per tile id
// in row-major order.
type TilesetImage struct {
	// Path is read when Data is empty.
	Path string
	// Data holds an encoded PNG or JPEG.
	Data    []byte
	Columns int
	Rows    int
}

// Decode loads the atlas and checks that it splits into whole cells.
//
// Returns:
//   - TextureStagingData: the atlas pixels
//   - error: when the source is missing or unreadable, or the grid does not divide the image
func (t *TilesetImage) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, errors.New("tileset image is nil")
	}
	if t.Columns <= 0 || t.Rows <= 0 {
		return TextureStagingData{}, fmt.Errorf("tileset grid %dx%d must be positive", t.Columns, t.Rows)
	}

	var (
		src  io.Reader
		name = "embedded tileset"
	)
	switch {
	case len(t.Data) > 0:
		src = bytes.NewReader(t.Data)
	case t.Path != "":
		f, err := os.Open(t.Path)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("open tileset: %w", err)
		}
		defer f.Close()
		src, name = f, t.Path
	default:
		return TextureStagingData{}, errors.New("tileset has neither data nor path")
	}

	tex, err := DecodeRGBA(src)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("decode %s: %w", name, err)
	}
	if tex.Width%uint32(t.Columns) != 0 || tex.Height%uint32(t.Rows) != 0 {
		return TextureStagingData{}, fmt.Errorf("%s is %dx%d, not divisible into %dx%d cells",
			name, tex.Width, tex.Height, t.Columns, t.Rows)
	}
	return tex, nil
}
