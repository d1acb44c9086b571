package stego

import "errors"

var (
	// ErrCapacityExceeded indicates the payload does not fit in the image.
	ErrCapacityExceeded = errors.New("stego: payload exceeds image capacity")
	// ErrNotSteganographic indicates the magic header is absent.
	ErrNotSteganographic = errors.New("stego: no hidden data found")
	// ErrInvalidLength indicates the embedded length field is implausible.
	ErrInvalidLength = errors.New("stego: invalid payload length")
	// ErrCorruptedPayload indicates the trailing delimiter did not match.
	ErrCorruptedPayload = errors.New("stego: payload delimiter missing or corrupted")
	// ErrUnsupportedImage indicates the carrier is not a decodable PNG.
	ErrUnsupportedImage = errors.New("stego: unsupported or undecodable image")
)
