// Package idgen produces short, URL-safe random identifiers.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// 64 characters, so a masked random byte maps uniformly onto the alphabet.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Generator yields random identifiers of a requested length.
type Generator interface {
	Generate(length int) string
}

// CryptoGenerator draws identifiers from crypto/rand.
type CryptoGenerator struct{}

func New() *CryptoGenerator {
	return &CryptoGenerator{}
}

// Generate returns a random identifier of exactly length characters.
// Entropy exhaustion is not a recoverable condition, so it panics instead
// of returning an error.
func (*CryptoGenerator) Generate(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("idgen: entropy source unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = alphabet[b&63]
	}
	return string(buf)
}

// Secret returns numBytes of randomness encoded as unpadded base64url,
// suitable for token secret material.
func Secret(numBytes int) string {
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("idgen: entropy source unavailable: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
