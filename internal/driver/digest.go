package driver

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is the SHA-256 fingerprint of a sheet document. It keys the disk
// cache and invalidates it whenever the document changes.
type Digest [sha256.Size]byte

// SheetDigest fingerprints the raw sheet bytes.
func SheetDigest(data []byte) Digest {
	return sha256.Sum256(data)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}
