package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "mov-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt)
	assert.Equal(t, "mov-42", decodedID)

	now := time.Now().UTC()
	decodedNow, _, err := DecodeToken(EncodeToken(now, "x"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|mov-1"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, MaxLimit, ClampLimit(10_000))
}
