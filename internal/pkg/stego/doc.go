// Package stego implements least-significant-bit steganography over RGBA
// pixel buffers.
//
// It provides three small, composable pieces: a bit codec that writes and
// reads the LSB of every non-alpha color channel in row-major order, a
// framer that wraps payload bytes in a self-describing wire format
// (magic header, 32-bit big-endian length, trailing delimiter), and a
// capacity calculator that reports how many payload bytes a given image
// can carry under the framing overhead.
package stego
