package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCursorRoundTrip(t *testing.T) {
	token := EncodeHistoryCursor(4821)
	assert.NotEmpty(t, token)

	id, err := DecodeHistoryCursor(token)
	require.NoError(t, err)
	assert.Equal(t, int64(4821), id)
}

func TestDecodeHistoryCursorRejectsForeignTokens(t *testing.T) {
	tests := map[string]string{
		"not base64":   "%%%",
		"wrong prefix": EncodeMultiFieldToken("jr", "12"),
		"extra field":  EncodeMultiFieldToken("ph", "12", "x"),
		"not a number": EncodeMultiFieldToken("ph", "twelve"),
		"zero id":      EncodeMultiFieldToken("ph", "0"),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeHistoryCursor(token)
			assert.Error(t, err)
		})
	}
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}
