package notices

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
)

// Fingerprinter derives the persistent identity of a notice from its text.
// Identical texts always produce the same fingerprint for a given salt.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter returns a fingerprinter keyed with the installation salt.
func NewFingerprinter(salt string) *Fingerprinter {
	return &Fingerprinter{key: []byte(salt)}
}

// Fingerprint returns the lowercase hex HMAC-MD5 of text.
func (f *Fingerprinter) Fingerprint(text string) string {
	mac := hmac.New(md5.New, f.key)
	mac.Write([]byte(text))
	return hex.EncodeToString(mac.Sum(nil))
}
