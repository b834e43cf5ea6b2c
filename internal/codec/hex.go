package codec

import "strconv"

// HexToBytes decodes a hexadecimal string into bytes.
//
// Both upper- and lowercase digits are accepted. Decoding is all-or-nothing:
// on error the returned slice is nil.
func HexToBytes(hex string) ([]byte, error) {
	if len(hex)%2 != 0 {
		return nil, &DecodeError{Kind: OddLength}
	}

	out := make([]byte, len(hex)/2)
	for i := 0; i < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return nil, &DecodeError{Kind: InvalidDigit, Offset: i, Err: err}
		}
		out[i/2] = byte(v)
	}
	return out, nil
}
