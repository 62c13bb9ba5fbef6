package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	keyPrefix   = "analysis"
	slugMaxLen  = 30
	checksumLen = 8
)

// Key derives a deterministic cache key from the owner identity and the
// job-description text. Entries are never shared across owners. The key keeps
// a readable truncated slug of the description and appends a checksum of the
// full normalized text, so two different descriptions from the same owner
// cannot collide on the slug alone.
func Key(ownerID, jobDescription string) string {
	normalized := normalize(jobDescription)
	slug := normalized
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}
	return keyPrefix + ":" + ownerID + ":" + slug + "-" + checksum(normalized)
}

func normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	return strings.Join(fields, "_")
}

func checksum(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:checksumLen]
}
