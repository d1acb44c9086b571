package stego

import "fmt"

// BitCodec writes and reads payload bits in the least-significant bit of
// every non-alpha channel byte, row-major and channel-major, starting at
// pixel (0,0). Skipping the alpha channel keeps transparency untouched.
type BitCodec struct{}

// NewBitCodec returns a BitCodec.
func NewBitCodec() *BitCodec {
	return &BitCodec{}
}

// Embed returns a copy of the buffer with bits written into channel LSBs.
//
// Trailing pixels beyond the bitstream are left as-is. The input buffer
// is not mutated.
func (BitCodec) Embed(p *PixelBuffer, bits []byte) (*PixelBuffer, error) {
	if max := 3 * p.Width * p.Height; len(bits) > max {
		return nil, fmt.Errorf("%w: need %d bits, image holds %d", ErrCapacityExceeded, len(bits), max)
	}

	out := p.Clone()

	bitIdx := 0
	for i := 0; i < len(out.Pix) && bitIdx < len(bits); i += channelsPerPixel {
		for ch := 0; ch < 3 && bitIdx < len(bits); ch++ {
			out.Pix[i+ch] = (out.Pix[i+ch] &^ 1) | (bits[bitIdx] & 1)
			bitIdx++
		}
	}

	return out, nil
}

// Extract reads bitCount LSBs in embed order. The buffer is not mutated.
func (BitCodec) Extract(p *PixelBuffer, bitCount int) ([]byte, error) {
	if max := 3 * p.Width * p.Height; bitCount > max {
		return nil, fmt.Errorf("%w: want %d bits, image holds %d", ErrCapacityExceeded, bitCount, max)
	}

	bits := make([]byte, 0, bitCount)
	for i := 0; i < len(p.Pix) && len(bits) < bitCount; i += channelsPerPixel {
		for ch := 0; ch < 3 && len(bits) < bitCount; ch++ {
			bits = append(bits, p.Pix[i+ch]&1)
		}
	}

	return bits, nil
}

// BytesToBits expands bytes into one bit per entry, MSB first.
func BytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

// BitsToBytes packs bits (MSB first) back into bytes.
//
// len(bits) must be a multiple of 8; callers control this via the framing
// layer, which always reads whole bytes.
func BitsToBytes(bits []byte) []byte {
	out := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | (bits[i+j] & 1)
		}
		out = append(out, b)
	}
	return out
}
