package stego

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Wire format, one bit per non-alpha channel:
//
//	[ magic bytes ][ u32 big-endian payload length ][ payload bytes ][ delimiter bytes ]
//
// The magic header is a cheap, low-false-positive presence test that runs
// before any cryptographic work; the trailing delimiter catches truncation
// that a length field alone would miss.
const (
	MagicHeader = "STEGO_V1"
	Delimiter   = "###END###"
)

const lengthFieldBits = 32

// Framer converts payload bytes to and from the embedded bitstream.
type Framer struct{}

// NewFramer returns a Framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Frame serializes payload into the bitstream to embed.
func (Framer) Frame(payload []byte) []byte {
	var lengthField [4]byte
	binary.BigEndian.PutUint32(lengthField[:], uint32(len(payload)))

	bits := make([]byte, 0, (len(MagicHeader)+4+len(payload)+len(Delimiter))*8)
	bits = append(bits, BytesToBits([]byte(MagicHeader))...)
	bits = append(bits, BytesToBits(lengthField[:])...)
	bits = append(bits, BytesToBits(payload)...)
	bits = append(bits, BytesToBits([]byte(Delimiter))...)

	return bits
}

// FramedBits is the total bit length of a framed payload of n bytes.
func (Framer) FramedBits(n int) int {
	return (len(MagicHeader) + 4 + n + len(Delimiter)) * 8
}

// Parse validates the framing and returns the payload bytes.
//
// maxPayload bounds the length field structurally; pass the capacity of
// the carrier image so a corrupted length cannot trigger huge reads.
func (Framer) Parse(bits []byte, maxPayload int) ([]byte, error) {
	magicBits := len(MagicHeader) * 8
	if len(bits) < magicBits {
		return nil, ErrNotSteganographic
	}
	if !bytes.Equal(BitsToBytes(bits[:magicBits]), []byte(MagicHeader)) {
		return nil, ErrNotSteganographic
	}

	if len(bits) < magicBits+lengthFieldBits {
		return nil, ErrInvalidLength
	}
	length := int(binary.BigEndian.Uint32(BitsToBytes(bits[magicBits : magicBits+lengthFieldBits])))
	if length <= 0 || length > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidLength, length, maxPayload)
	}

	payloadStart := magicBits + lengthFieldBits
	payloadEnd := payloadStart + length*8
	delimiterEnd := payloadEnd + len(Delimiter)*8
	if len(bits) < delimiterEnd {
		return nil, ErrCorruptedPayload
	}

	if !bytes.Equal(BitsToBytes(bits[payloadEnd:delimiterEnd]), []byte(Delimiter)) {
		return nil, ErrCorruptedPayload
	}

	return BitsToBytes(bits[payloadStart:payloadEnd]), nil
}

// HasMagicPrefix reports whether the first channel LSBs of the buffer
// spell the magic header. Used as a cheap presence probe.
func HasMagicPrefix(codec BitCodec, p *PixelBuffer) bool {
	magicBits := len(MagicHeader) * 8
	if 3*p.Width*p.Height < magicBits {
		return false
	}

	bits, err := codec.Extract(p, magicBits)
	if err != nil {
		return false
	}

	return bytes.Equal(BitsToBytes(bits), []byte(MagicHeader))
}
