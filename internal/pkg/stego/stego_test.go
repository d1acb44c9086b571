package stego

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func testBuffer(w, h int) *PixelBuffer {
	p := NewPixelBuffer(w, h)
	// deterministic non-zero pixels so LSB writes are observable
	for i := range p.Pix {
		p.Pix[i] = byte(i*31 + 7)
	}
	return p
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	codec := NewBitCodec()
	framer := NewFramer()

	t.Run("SmallPayload", func(t *testing.T) {

		// Arrange
		cover := testBuffer(40, 40)
		payload := []byte("attack at dawn")

		// Act
		stegoed, err := codec.Embed(cover, framer.Frame(payload))
		if err != nil {
			t.Fatalf("embed: %v", err)
		}
		bits, err := codec.Extract(stegoed, framer.FramedBits(len(payload)))
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		got, err := framer.Parse(bits, CapacityBytes(cover.Width, cover.Height))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		// Assert
		if !bytes.Equal(got, payload) {
			t.Fatalf("round trip mismatch: got %q want %q", got, payload)
		}
	})

	t.Run("RandomPayloadAtCapacity", func(t *testing.T) {

		// Arrange
		cover := testBuffer(100, 100)
		payload := make([]byte, CapacityBytes(100, 100))
		if _, err := rand.Read(payload); err != nil {
			t.Fatalf("rand: %v", err)
		}

		// Act
		stegoed, err := codec.Embed(cover, framer.Frame(payload))
		if err != nil {
			t.Fatalf("embed at capacity: %v", err)
		}
		bits, err := codec.Extract(stegoed, framer.FramedBits(len(payload)))
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		got, err := framer.Parse(bits, CapacityBytes(100, 100))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		// Assert
		if !bytes.Equal(got, payload) {
			t.Fatalf("round trip mismatch at capacity")
		}
	})

	t.Run("InputBufferNotMutated", func(t *testing.T) {

		// Arrange
		cover := testBuffer(20, 20)
		before := append([]byte(nil), cover.Pix...)

		// Act
		if _, err := codec.Embed(cover, framer.Frame([]byte("x"))); err != nil {
			t.Fatalf("embed: %v", err)
		}

		// Assert
		if !bytes.Equal(cover.Pix, before) {
			t.Fatalf("embed mutated its input buffer")
		}
	})

	t.Run("AlphaChannelUntouched", func(t *testing.T) {

		// Arrange
		cover := testBuffer(20, 20)

		// Act
		stegoed, err := codec.Embed(cover, framer.Frame([]byte("alpha check")))
		if err != nil {
			t.Fatalf("embed: %v", err)
		}

		// Assert
		for i := 3; i < len(cover.Pix); i += 4 {
			if cover.Pix[i] != stegoed.Pix[i] {
				t.Fatalf("alpha byte %d changed", i)
			}
		}
	})
}

func TestCapacityBounds(t *testing.T) {

	t.Run("ExactCapacitySucceeds", func(t *testing.T) {

		// Arrange
		codec := NewBitCodec()
		framer := NewFramer()
		cover := testBuffer(100, 100)
		payload := make([]byte, CapacityBytes(100, 100))

		// Act
		_, err := codec.Embed(cover, framer.Frame(payload))

		// Assert
		if err != nil {
			t.Fatalf("expected embed at exact capacity to succeed, got %v", err)
		}
	})

	t.Run("OneByteOverFails", func(t *testing.T) {

		// Arrange
		codec := NewBitCodec()
		framer := NewFramer()
		cover := testBuffer(100, 100)
		payload := make([]byte, CapacityBytes(100, 100)+1)

		// Act
		_, err := codec.Embed(cover, framer.Frame(payload))

		// Assert
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
	})

	t.Run("ConcreteValueFor100x100", func(t *testing.T) {

		// Arrange
		overhead := len(MagicHeader)*8 + len(Delimiter)*8 + 32
		want := (3*100*100 - overhead) / 8

		// Act
		got := CapacityBytes(100, 100)

		// Assert
		if got != want {
			t.Fatalf("capacity = %d, want %d", got, want)
		}
	})

	t.Run("TinyImageHasZeroCapacity", func(t *testing.T) {
		if got := CapacityBytes(2, 2); got != 0 {
			t.Fatalf("capacity = %d, want 0", got)
		}
	})
}

func TestParseErrors(t *testing.T) {
	codec := NewBitCodec()
	framer := NewFramer()

	t.Run("PlainImageIsNotSteganographic", func(t *testing.T) {

		// Arrange
		cover := testBuffer(50, 50)

		// Act
		bits, err := codec.Extract(cover, framer.FramedBits(16))
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		_, err = framer.Parse(bits, CapacityBytes(50, 50))

		// Assert
		if !errors.Is(err, ErrNotSteganographic) {
			t.Fatalf("expected ErrNotSteganographic, got %v", err)
		}
	})

	t.Run("ZeroLengthRejected", func(t *testing.T) {

		// Arrange: valid magic followed by a zero length field.
		bits := append(BytesToBits([]byte(MagicHeader)), BytesToBits([]byte{0, 0, 0, 0})...)
		bits = append(bits, BytesToBits([]byte(Delimiter))...)

		// Act
		_, err := framer.Parse(bits, 1024)

		// Assert
		if !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("expected ErrInvalidLength, got %v", err)
		}
	})

	t.Run("LengthBeyondCapacityRejected", func(t *testing.T) {

		// Arrange
		bits := append(BytesToBits([]byte(MagicHeader)), BytesToBits([]byte{0xFF, 0xFF, 0xFF, 0xFF})...)

		// Act
		_, err := framer.Parse(bits, 1024)

		// Assert
		if !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("expected ErrInvalidLength, got %v", err)
		}
	})

	t.Run("FlippedDelimiterBitIsCorruption", func(t *testing.T) {

		// Arrange
		payload := []byte("intact payload")
		bits := framer.Frame(payload)
		delimStart := len(bits) - len(Delimiter)*8
		bits[delimStart+3] ^= 1

		// Act
		_, err := framer.Parse(bits, 1024)

		// Assert
		if !errors.Is(err, ErrCorruptedPayload) {
			t.Fatalf("expected ErrCorruptedPayload, got %v", err)
		}
	})

	t.Run("TruncatedBitstreamIsCorruption", func(t *testing.T) {

		// Arrange
		bits := framer.Frame([]byte("will be cut short"))
		bits = bits[:len(bits)-len(Delimiter)*8]

		// Act
		_, err := framer.Parse(bits, 1024)

		// Assert
		if !errors.Is(err, ErrCorruptedPayload) {
			t.Fatalf("expected ErrCorruptedPayload, got %v", err)
		}
	})
}

func TestPNGRoundTrip(t *testing.T) {

	t.Run("EncodeDecodePreservesStegoBits", func(t *testing.T) {

		// Arrange
		codec := NewBitCodec()
		framer := NewFramer()
		cover := testBuffer(64, 64)
		payload := []byte("survives png encoding")

		stegoed, err := codec.Embed(cover, framer.Frame(payload))
		if err != nil {
			t.Fatalf("embed: %v", err)
		}

		// Act
		encoded, err := EncodePNG(stegoed)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, err := DecodePNG(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		bits, err := codec.Extract(decoded, framer.FramedBits(len(payload)))
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		got, err := framer.Parse(bits, CapacityBytes(decoded.Width, decoded.Height))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		// Assert
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload did not survive png round trip")
		}
		if !IsPNG(encoded) {
			t.Fatalf("EncodePNG output missing png signature")
		}
	})

	t.Run("GarbageBytesRejected", func(t *testing.T) {
		if _, err := DecodePNG([]byte("definitely not a png")); !errors.Is(err, ErrUnsupportedImage) {
			t.Fatalf("expected ErrUnsupportedImage, got %v", err)
		}
	})
}

func TestHasMagicPrefix(t *testing.T) {

	// Arrange
	codec := NewBitCodec()
	framer := NewFramer()
	plain := testBuffer(32, 32)

	stegoed, err := codec.Embed(plain, framer.Frame([]byte("hello")))
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	// Act / Assert
	if HasMagicPrefix(BitCodec{}, plain) {
		t.Fatalf("plain buffer reported as steganographic")
	}
	if !HasMagicPrefix(BitCodec{}, stegoed) {
		t.Fatalf("stego buffer not detected")
	}
}
