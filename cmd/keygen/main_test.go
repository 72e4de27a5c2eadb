package main

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := generateSecret(rand.Reader)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, raw, secretBytes)

	other, err := generateSecret(rand.Reader)
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestGenerateSecret_Deterministic(t *testing.T) {
	secret, err := generateSecret(bytes.NewReader(bytes.Repeat([]byte{0}, secretBytes)))

	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(make([]byte, secretBytes)), secret)
}

func TestGenerateSecret_ShortRead(t *testing.T) {
	_, err := generateSecret(strings.NewReader("short"))

	assert.Error(t, err)
}
