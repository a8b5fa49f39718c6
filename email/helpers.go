package email

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashString digests s for use in references and log fields, where the raw
// email address must not appear.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(sum[:])
}
