package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	b := []byte("sensitive key material")
	Zero(b)
	for i := range b {
		assert.Equal(t, byte(0), b[i])
	}
}

func TestZeroNil(t *testing.T) {
	assert.NotPanics(t, func() { Zero(nil) })
}

func TestAlgorithmValid(t *testing.T) {
	assert.True(t, AESGCM.Valid())
	assert.True(t, ChaCha20.Valid())
	assert.False(t, Algorithm("des").Valid())
	assert.False(t, Algorithm("").Valid())
}
