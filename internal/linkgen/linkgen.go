// Package linkgen creates the short review links businesses hand to their
// customers (e.g. https://go.reviewhut.com/x7k2pq).
package linkgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugLength   = 6
)

// NewSlug returns a random six-character lowercase base-36 slug.
func NewSlug() (string, error) {
	max := big.NewInt(int64(len(slugAlphabet)))
	var b strings.Builder
	for i := 0; i < slugLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("linkgen: draw slug character: %w", err)
		}
		b.WriteByte(slugAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// ShortLink appends a fresh slug to the short-link base URL.
func ShortLink(base string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "", fmt.Errorf("linkgen: base URL is required")
	}
	slug, err := NewSlug()
	if err != nil {
		return "", err
	}
	return trimmed + "/" + slug, nil
}
