package stego

// CapacityBytes is the maximum payload size in bytes an image of the
// given dimensions can carry under the framing overhead.
//
// Three bits per pixel (alpha is skipped), minus the magic header, the
// trailing delimiter, and the 32-bit length field.
func CapacityBytes(width, height int) int {
	availableBits := 3 * width * height
	overheadBits := len(MagicHeader)*8 + len(Delimiter)*8 + lengthFieldBits

	capacity := (availableBits - overheadBits) / 8
	if capacity < 0 {
		return 0
	}
	return capacity
}
