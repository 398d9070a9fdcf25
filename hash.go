package gameloc

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding whitespace and applies Unicode NFC.
func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// HashText computes the SHA-256 hash of the normalized text.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates the cache key for a text, language pair and provider.
func CacheKey(text, sourceLang, targetLang, providerName string) string {
	return HashText(text) + ":" + sourceLang + ":" + targetLang + ":" + providerName
}
