package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	signed, err := Generate("1234567890", secret, time.Hour)
	assert.NoError(t, err)

	userID, err := UserIDFrom(signed, secret)
	assert.NoError(t, err)
	assert.Equal(t, "1234567890", userID)
}

func TestParse_WrongSecret(t *testing.T) {
	signed, err := Generate("1234567890", secret, time.Hour)
	assert.NoError(t, err)

	_, err = UserIDFrom(signed, []byte("other-secret"))
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	signed, err := Generate("1234567890", secret, -time.Minute)
	assert.NoError(t, err)

	_, err = UserIDFrom(signed, secret)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := UserIDFrom("definitely.not.a.jwt", secret)
	assert.Error(t, err)
}
