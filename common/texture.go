// Package common holds plain data types and helpers shared by the engine packages.
package common

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	// atlas formats accepted by DecodeRGBA
	_ "image/jpeg"
	_ "image/png"
)

// TextureStagingData is RGBA8 pixel data waiting to be uploaded into a texture binding.
type TextureStagingData struct {
	// Pixels are row-major, 4 bytes per pixel, with no row padding.
	Pixels []byte
	Width  uint32
	Height uint32
}

// RowBytes returns the byte length of one pixel row.
//
// Returns:
//   - uint32: Width * 4
func (t TextureStagingData) RowBytes() uint32 {
	return t.Width * 4
}

// Validate checks that the texture has a size and enough pixels to fill it.
//
// Returns:
//   - error: nil when the data can be uploaded
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("texture has zero size %dx%d", t.Width, t.Height)
	}
	if want := int(t.RowBytes()) * int(t.Height); len(t.Pixels) < want {
		return fmt.Errorf("texture %dx%d has %d bytes of pixels, want %d", t.Width, t.Height, len(t.Pixels), want)
	}
	return nil
}

// DecodeRGBA decodes a PNG or JPEG image into staging data, converting any color model to RGBA.
//
// Parameters:
//   - r: the encoded image
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: when the image cannot be decoded
func DecodeRGBA(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, err
	}

	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
