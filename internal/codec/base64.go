package codec

// alphabet is the standard Base64 alphabet.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const padChar = '='

// EncodedLen returns the length of the padded Base64 encoding of n bytes.
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// BytesToBase64 encodes data as standard, padded Base64 text.
func BytesToBase64(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	dst := make([]byte, EncodedLen(len(data)))
	di := 0
	full := len(data) / 3 * 3
	for si := 0; si < full; si += 3 {
		b0, b1, b2 := data[si], data[si+1], data[si+2]
		dst[di+0] = alphabet[b0>>2]
		dst[di+1] = alphabet[(b0&0x03)<<4|b1>>4]
		dst[di+2] = alphabet[(b1&0x0F)<<2|b2>>6]
		dst[di+3] = alphabet[b2&0x3F]
		di += 4
	}

	// Missing bytes of the last group are zero for packing only.
	switch len(data) - full {
	case 1:
		b0 := data[full]
		dst[di+0] = alphabet[b0>>2]
		dst[di+1] = alphabet[(b0&0x03)<<4]
		dst[di+2] = padChar
		dst[di+3] = padChar
	case 2:
		b0, b1 := data[full], data[full+1]
		dst[di+0] = alphabet[b0>>2]
		dst[di+1] = alphabet[(b0&0x03)<<4|b1>>4]
		dst[di+2] = alphabet[(b1&0x0F)<<2]
		dst[di+3] = padChar
	}

	return string(dst)
}
