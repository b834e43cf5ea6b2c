package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToBase64(t *testing.T) {
	got, err := HexToBase64("48656c6c6f20576f726c64")
	require.NoError(t, err)
	assert.Equal(t, "SGVsbG8gV29ybGQ=", got)

	got, err = HexToBase64("4C6975626F76")
	require.NoError(t, err)
	assert.Equal(t, "TGl1Ym92", got)

	got, err = HexToBase64("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHexToBase64_PropagatesDecodeError(t *testing.T) {
	got, err := HexToBase64("48656c6c6f20576f726c644")
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, ErrOddLength))

	got, err = HexToBase64("48zz")
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, ErrInvalidDigit))
}
