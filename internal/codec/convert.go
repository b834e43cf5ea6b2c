package codec

// HexToBase64 decodes hex and re-encodes the bytes as Base64.
// Decode errors are returned unchanged.
func HexToBase64(hex string) (string, error) {
	data, err := HexToBytes(hex)
	if err != nil {
		return "", err
	}
	return BytesToBase64(data), nil
}
