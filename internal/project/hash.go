package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш плагина: H( content || file1 || file2 ... ).
// Порядок файлов должен быть детерминированным (Plugin.Files отсортированы).
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// NameDigest hashes a string, used to bind a plugin name and file names into its fingerprint.
func NameDigest(s string) Digest {
	return sha256.Sum256([]byte(s))
}

func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex digits.
func (d Digest) Short() string {
	return d.Hex()[:12]
}
