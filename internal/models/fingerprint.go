package models

import (
	"crypto/md5"
	"encoding/hex"
)

// Fingerprint derives a stable pseudo-identity from connection metadata.
// Not a cryptographic identity: callers behind the same proxy with the same
// agent string share one, and anyone can spoof it. It only has to be stable
// enough for per-caller throttling.
func Fingerprint(addr, agent string) string {
	sum := md5.Sum([]byte(addr + ":" + agent))
	return hex.EncodeToString(sum[:])
}
