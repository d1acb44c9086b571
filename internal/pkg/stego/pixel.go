package stego

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
)

// channelsPerPixel is the RGBA stride of a PixelBuffer.
const channelsPerPixel = 4

// PixelBuffer is a transient, exclusively owned RGBA raster.
//
// Pix holds width*height*4 bytes in row-major order. A buffer is never
// retained after the operation that created it completes.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer of the given dimensions.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*channelsPerPixel),
	}
}

// Clone returns a deep copy so embed can leave its input untouched.
func (p *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(p.Pix))
	copy(pix, p.Pix)
	return &PixelBuffer{Width: p.Width, Height: p.Height, Pix: pix}
}

// DecodePNG decodes PNG bytes into an RGBA pixel buffer.
//
// Any source color model is redrawn into non-premultiplied RGBA so the
// codec always sees four channels per pixel. NRGBA matches what PNG
// stores on disk, so decode followed by encode is bit-exact and the
// embedded LSBs survive even when the image carries transparency.
func DecodePNG(data []byte) (*PixelBuffer, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	return &PixelBuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    dst.Pix,
	}, nil
}

// EncodePNG re-encodes a pixel buffer as PNG bytes.
//
// PNG is lossless, which is what keeps the embedded LSBs intact.
func EncodePNG(p *PixelBuffer) ([]byte, error) {
	img := &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Width * channelsPerPixel,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(data) >= len(sig) && bytes.Equal(data[:len(sig)], sig)
}
