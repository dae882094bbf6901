package cryptox

// Pad appends PKCS#7 padding so the result is a multiple of blockSize.
// A full block of padding is added when data is already aligned, so the
// last byte always encodes the pad length.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad strips PKCS#7 padding. The pad length must be in [1, blockSize] and
// every pad byte must equal it, otherwise ErrPadding is returned.
//
// The returned slice aliases data.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrPadding
	}

	n := int(data[len(data)-1])
	if n < 1 || n > blockSize {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrPadding
		}
	}
	return data[:len(data)-n], nil
}
