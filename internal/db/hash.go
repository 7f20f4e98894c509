package db

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenerateContentHash returns the hex SHA-256 of content. Transcripts store it
// so re-imports of identical captions can be detected without comparing bodies.
func GenerateContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
